package dirsvc

import (
	"context"
	"io"
	"strings"

	"v2browse/internal/errors"
	"v2browse/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures an S3 backed tree. Endpoint is set for MinIO and
// other S3 compatible stores; empty credentials use the AWS default chain.
type S3Config struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// s3API is the subset of the S3 client the backend uses.
type s3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Backend serves the objects of a bucket. "/" delimited key prefixes are
// directories; a directory exists when at least one key lives under it.
type S3Backend struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Backend creates a backend from cfg.
func NewS3Backend(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewConfigError("bucket is required", "s3-bucket", errors.InvalidConfig, nil)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Backend(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Backend(client s3API, bucket, prefix string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, prefix: types.CleanPath(prefix)}
}

// Name implements Backend.
func (b *S3Backend) Name() string { return "s3" }

// key maps a tree path to an object key.
func (b *S3Backend) key(p string) string {
	return types.JoinPath(b.prefix, p)
}

// dirPrefix returns the key prefix of directory p, "" for an unprefixed root.
func (b *S3Backend) dirPrefix(p string) string {
	k := b.key(p)
	if k == "" {
		return ""
	}
	return k + "/"
}

// level lists the immediate children under prefix.
func (b *S3Backend) level(ctx context.Context, prefix string) (dirs, files []string, err error) {
	pager := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "list objects %s", prefix)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name != "" {
				dirs = append(dirs, name)
			}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			// directory marker objects end in "/"
			if name != "" && !strings.HasSuffix(name, "/") {
				files = append(files, name)
			}
		}
	}
	return dirs, files, nil
}

// List implements Backend.
func (b *S3Backend) List(ctx context.Context, p string) (types.Listing, error) {
	p = types.CleanPath(p)
	if hiddenPath(p) {
		return nil, ErrNotFound
	}
	prefix := b.dirPrefix(p)
	dirs, files, err := b.level(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if p != "" && len(dirs) == 0 && len(files) == 0 {
		return nil, ErrNotFound
	}

	items := make(types.Listing, 0, len(dirs)+len(files))
	for _, d := range dirs {
		if hidden(d) {
			continue
		}
		subDirs, subFiles, err := b.level(ctx, prefix+d+"/")
		if err != nil {
			return nil, err
		}
		children := make([]types.Entry, 0, len(subDirs)+len(subFiles))
		for _, n := range subDirs {
			if !hidden(n) {
				children = append(children, types.Entry{Name: n, Type: types.Directory})
			}
		}
		for _, n := range subFiles {
			if !hidden(n) {
				children = append(children, types.Entry{Name: n, Type: types.File})
			}
		}
		sortEntries(children)
		items = append(items, types.Entry{Name: d, Type: types.Directory, Contents: children})
	}
	for _, f := range files {
		if !hidden(f) {
			items = append(items, types.Entry{Name: f, Type: types.File})
		}
	}
	sortEntries(items)
	return items, nil
}

// Read implements Backend.
func (b *S3Backend) Read(ctx context.Context, p string) ([]byte, error) {
	p = types.CleanPath(p)
	if p == "" {
		return nil, ErrIsDir
	}
	if hiddenPath(p) {
		return nil, ErrNotFound
	}
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(p)),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get object %s", p)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read object %s", p)
	}
	return data, nil
}
