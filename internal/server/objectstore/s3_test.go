package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPresign := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNew, origPresign
		putObject, presignGetObject = origPut, origGet
	})
}

var testOptions = Options{
	Endpoint: "http://127.0.0.1:9000",
	Region:   "us-east-1",
	User:     "minioadmin",
	Password: "minioadmin",
	Bucket:   "exports",
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}

	var applied s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&applied)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	st, err := NewS3Store(context.Background(), testOptions)
	require.NoError(t, err)
	assert.Equal(t, "exports", st.bucket)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(applied.BaseEndpoint))
	assert.True(t, applied.UsePathStyle)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	restoreSeams(t)
	boom := errors.New("no config")
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, boom
	}

	_, err := NewS3Store(context.Background(), testOptions)
	require.ErrorIs(t, err, boom)
}

func TestPutAndPresign(t *testing.T) {
	restoreSeams(t)

	st, err := NewS3Store(context.Background(), testOptions)
	require.NoError(t, err)

	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Equal(t, "exports", aws.ToString(in.Bucket))
		assert.Equal(t, "k.csv", aws.ToString(in.Key))
		assert.Equal(t, "text/csv", aws.ToString(in.ContentType))
		body, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n", string(body))
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 5*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/exports/" + aws.ToString(in.Key) + "?X-Amz-Signature=x"}, nil
	}

	require.NoError(t, st.Put(context.Background(), "k.csv", []byte("a,b\n"), "text/csv"))

	url, err := st.PresignGet(context.Background(), "k.csv", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/exports/k.csv?X-Amz-Signature=x", url)
}

func TestPutAndPresign_Errors(t *testing.T) {
	restoreSeams(t)

	st, err := NewS3Store(context.Background(), testOptions)
	require.NoError(t, err)

	boom := errors.New("unreachable")
	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, boom
	}
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, boom
	}

	require.ErrorIs(t, st.Put(context.Background(), "k", nil, "text/csv"), boom)
	_, err = st.PresignGet(context.Background(), "k", time.Minute)
	require.ErrorIs(t, err, boom)
}
