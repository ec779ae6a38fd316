package photos

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beach.jpg"), []byte("jpeg-bytes"), 0o600))

	src := FileSource{BaseDir: dir}
	ctx := context.Background()

	b, err := src.Read(ctx, "beach.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), b)

	b, err = src.Read(ctx, "file://"+filepath.Join(dir, "beach.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), b)

	_, err = src.Read(ctx, "missing.jpg")
	require.Error(t, err)
}

type fakeGetter struct {
	objects map[string][]byte
	lastIn  *s3.GetObjectInput
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastIn = in
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func TestS3Source_Read(t *testing.T) {
	g := &fakeGetter{objects: map[string][]byte{"trips/2024/rome.jpg": []byte("img")}}
	src := &S3Source{client: g}

	b, err := src.Read(context.Background(), "s3://trips/2024/rome.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), b)
	assert.Equal(t, "trips", *g.lastIn.Bucket)
	assert.Equal(t, "2024/rome.jpg", *g.lastIn.Key)

	_, err = src.Read(context.Background(), "s3://trips/none.jpg")
	require.ErrorContains(t, err, "get s3 object trips/none.jpg")
}

func TestParseS3Ref(t *testing.T) {
	b, k, err := ParseS3Ref("s3://bucket/a/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "bucket", b)
	assert.Equal(t, "a/b.jpg", k)

	for _, bad := range []string{"s3://bucket", "s3:///key", "http://bucket/key", "::"} {
		_, _, err := ParseS3Ref(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewS3Source_ConfiguresClient(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var region string
	var hasCreds bool
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		region = lo.Region
		hasCreds = lo.Credentials != nil
		return aws.Config{Region: lo.Region}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	src, err := NewS3Source(context.Background(), S3Config{
		Region: "eu-central-1", Endpoint: "http://127.0.0.1:9000", AccessKey: "ak", SecretKey: "sk",
	})
	require.NoError(t, err)
	require.NotNil(t, src)

	assert.Equal(t, "eu-central-1", region)
	assert.True(t, hasCreds)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Source_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3Source(context.Background(), S3Config{Region: "us-east-1"})
	require.ErrorContains(t, err, "load aws config")
}

type staticSource []byte

func (s staticSource) Read(context.Context, string) ([]byte, error) { return s, nil }

func TestRouter(t *testing.T) {
	r := NewRouter(staticSource("local"))
	r.Handle("s3", staticSource("remote"))

	b, err := r.Read(context.Background(), "S3://bucket/key")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), b)

	b, err = r.Read(context.Background(), "/tmp/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("local"), b)

	_, err = (&Router{Schemes: map[string]Source{}}).Read(context.Background(), "x.jpg")
	require.Error(t, err)
}
