package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/navbridge/internal/config"
	naverrors "github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/internal/logging"
)

// configFlags selects where the route table comes from.
type configFlags struct {
	path     string
	s3Bucket string
	s3Key    string
	s3Region string
	logLevel string

	// newS3 builds the S3 client; replaced in tests.
	newS3 func(region string) config.ObjectGetter
}

func (f *configFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.path, "config", "c", config.ConfigFileName, "Route table file (.json, .yaml or .yml)")
	pf.StringVar(&f.s3Bucket, "s3-bucket", "", "Load the route table from this S3 bucket")
	pf.StringVar(&f.s3Key, "s3-key", config.ConfigFileName, "Object key of the route table in --s3-bucket")
	pf.StringVar(&f.s3Region, "s3-region", "us-east-1", "AWS region of --s3-bucket")
	pf.StringVar(&f.logLevel, "log-level", "", "Override the configured log level")
}

// load reads the configuration from S3 when a bucket is given, from the
// local file otherwise.
func (f *configFlags) load(ctx context.Context) (*config.Config, error) {
	if f.s3Bucket == "" {
		return config.Load(f.path)
	}
	newS3 := f.newS3
	if newS3 == nil {
		newS3 = newS3Client
	}
	return config.LoadFromS3(ctx, newS3(f.s3Region), f.s3Bucket, f.s3Key)
}

// logger builds the logger described by cfg, honoring --log-level.
func (f *configFlags) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Log.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	l, err := logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format)
	if err != nil {
		return nil, naverrors.New("E105").WithWhere("--log-level=" + level).Wrap(err)
	}
	return l, nil
}

// newS3Client creates an S3 client with credentials from the standard AWS
// environment variables. Without them requests are sent anonymously.
func newS3Client(region string) config.ObjectGetter {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.CredentialsProviderFunc(envCredentials),
	})
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}.Retrieve(ctx)
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvironmentVariables",
	}, nil
}
