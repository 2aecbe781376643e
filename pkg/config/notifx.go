package config

import (
	"errors"
	"fmt"
)

// NotifxConfig configures the notification system.
type NotifxConfig struct {
	Provider         string `env:"PROVIDER" envDefault:"console"`
	FromAddress      string `env:"FROM_ADDRESS" envDefault:"noreply@roa.io"`
	FromName         string `env:"FROM_NAME" envDefault:"Expense Tracker"`
	AWSRegion        string `env:"AWS_REGION" envDefault:"us-east-1"`
	ConfigurationSet string `env:"CONFIGURATION_SET"`
	// TemplateDir is the directory (or key prefix) holding *.html templates
	// when STORAGE_MODE is local or s3.
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"templates"`
}

const (
	StorageEmbedded = "embedded"
	StorageLocal    = "local"
	StorageS3       = "s3"
)

// StorageConfig selects where email templates are read from.
type StorageConfig struct {
	Mode     string `env:"MODE" envDefault:"embedded"`
	LocalDir string `env:"LOCAL_DIR" envDefault:"."`
	S3Bucket string `env:"S3_BUCKET"`
	S3Region string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Prefix string `env:"S3_PREFIX"`
}

func (c StorageConfig) validate() []error {
	switch c.Mode {
	case StorageEmbedded, StorageLocal:
		return nil
	case StorageS3:
		if c.S3Bucket == "" {
			return []error{errors.New("STORAGE_S3_BUCKET is required in s3 mode")}
		}
		return nil
	default:
		return []error{fmt.Errorf("STORAGE_MODE must be embedded, local or s3, got %q", c.Mode)}
	}
}
