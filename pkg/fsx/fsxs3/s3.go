package fsxs3

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
)

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// FileSystem reads objects of one bucket, below an optional key prefix.
type FileSystem struct {
	client API
	bucket string
	prefix string
}

func NewFileSystem(client API, bucket, prefix string) *FileSystem {
	return &FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (f *FileSystem) key(p string) string {
	return strings.TrimPrefix(path.Join(f.prefix, path.Clean("/"+p)), "/")
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fsx.ErrNotFound(p)
		}
		return nil, fsx.ErrUnavailable(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fsx.ErrUnavailable(err)
	}
	return data, nil
}

// List returns the direct children of dir. Common prefixes are reported as
// directories.
func (f *FileSystem) List(ctx context.Context, dir string) ([]fsx.FileInfo, error) {
	prefix := f.key(dir)
	if prefix != "" {
		prefix += "/"
	}

	var infos []fsx.FileInfo
	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(f.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fsx.ErrUnavailable(err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" {
				continue
			}
			infos = append(infos, fsx.FileInfo{
				Name:    name,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			infos = append(infos, fsx.FileInfo{Name: name, IsDir: true})
		}
	}
	return infos, nil
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fsx.ErrUnavailable(err)
}
