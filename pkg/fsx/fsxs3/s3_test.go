package fsxs3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx/fsxs3"
)

type fakeS3 struct {
	objects map[string][]byte
	fail    error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	prefix := aws.ToString(in.Prefix)
	for k, v := range f.objects {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(v)))})
		}
	}
	return out, nil
}

func TestS3FileSystemUsesPrefix(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"mail/templates/email_verification.html": []byte("<b>{{.Code}}</b>"),
	}}
	fs := fsxs3.NewFileSystem(client, "bucket", "/mail/")
	ctx := context.Background()

	data, err := fs.ReadFile(ctx, "templates/email_verification.html")
	require.NoError(t, err)
	assert.Equal(t, "<b>{{.Code}}</b>", string(data))

	infos, err := fs.List(ctx, "templates")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "email_verification.html", infos[0].Name)
	assert.Equal(t, int64(16), infos[0].Size)

	ok, err := fs.Exists(ctx, "templates/other.html")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3FileSystemMapsErrors(t *testing.T) {
	fs := fsxs3.NewFileSystem(&fakeS3{objects: map[string][]byte{}}, "bucket", "")

	_, err := fs.ReadFile(context.Background(), "missing.html")
	assert.True(t, errx.HasCode(err, fsx.CodeNotFound))

	broken := fsxs3.NewFileSystem(&fakeS3{fail: errors.New("timeout")}, "bucket", "")
	_, err = broken.ReadFile(context.Background(), "x.html")
	assert.True(t, errx.HasCode(err, fsx.CodeUnavailable))
}
