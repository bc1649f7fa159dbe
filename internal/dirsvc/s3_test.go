package dirsvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"v2browse/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers ListObjectsV2 and GetObject from an in-memory bucket.
type fakeS3 struct {
	objects map[string]string
	lists   int
	fail    error
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.lists++
	if f.fail != nil {
		return nil, f.fail
	}
	prefix, delim := aws.ToString(in.Prefix), aws.ToString(in.Delimiter)

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if i := strings.Index(rest, delim); delim != "" && i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				out.CommonPrefixes = append(out.CommonPrefixes, s3types.CommonPrefix{Prefix: aws.String(cp)})
			}
			continue
		}
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func bucket() *fakeS3 {
	return &fakeS3{objects: map[string]string{
		"tree/readme.txt":        "hello",
		"tree/docs/":             "",
		"tree/docs/a.txt":        "alpha",
		"tree/docs/sub/x.txt":    "x",
		"tree/docs/.hidden":      "h",
		"tree/.cache/blob":       "c",
		"tree/photos/2024/a.jpg": "jpg",
		"other/ignored.txt":      "no",
	}}
}

func TestS3BackendList(t *testing.T) {
	fake := bucket()
	b := newS3Backend(fake, "bkt", "/tree/")
	ctx := context.Background()

	root, err := b.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, types.Listing{
		{Name: "docs", Type: types.Directory, Contents: []types.Entry{
			{Name: "sub", Type: types.Directory},
			{Name: "a.txt", Type: types.File},
		}},
		{Name: "photos", Type: types.Directory, Contents: []types.Entry{
			{Name: "2024", Type: types.Directory},
		}},
		{Name: "readme.txt", Type: types.File},
	}, root)
	assert.Equal(t, 3, fake.lists, "one request for the level and one per visible directory")

	docs, err := b.List(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, types.Listing{
		{Name: "sub", Type: types.Directory, Contents: []types.Entry{{Name: "x.txt", Type: types.File}}},
		{Name: "a.txt", Type: types.File},
	}, docs, "directory markers and hidden keys are skipped")

	_, err = b.List(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.List(ctx, ".cache")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3BackendRead(t *testing.T) {
	b := newS3Backend(bucket(), "bkt", "tree")
	ctx := context.Background()

	data, err := b.Read(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))

	_, err = b.Read(ctx, "docs/nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.Read(ctx, "")
	assert.ErrorIs(t, err, ErrIsDir)
	_, err = b.Read(ctx, "docs/.hidden")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3BackendErrors(t *testing.T) {
	fake := bucket()
	fake.fail = fmt.Errorf("access denied")
	b := newS3Backend(fake, "bkt", "")
	ctx := context.Background()

	_, err := b.List(ctx, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = b.Read(ctx, "tree/readme.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get object")
}

func TestS3BackendUnprefixedRoot(t *testing.T) {
	b := newS3Backend(bucket(), "bkt", "")
	root, err := b.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "tree"}, []string{root[0].Name, root[1].Name})
}

func TestNewS3BackendRequiresBucket(t *testing.T) {
	_, err := NewS3Backend(context.Background(), S3Config{})
	require.Error(t, err)
}

func TestServerOverS3(t *testing.T) {
	srv := newTestServer(t, newS3Backend(bucket(), "bkt", "tree"))

	code, _, body := get(t, srv.URL+"/list-directory?path=photos")
	require.Equal(t, 200, code)
	assert.JSONEq(t, `[{"name":"2024","type":"directory","contents":[{"name":"a.jpg","type":"file"}]}]`, string(body))

	code, _, body = get(t, srv.URL+"/static/readme.txt")
	require.Equal(t, 200, code)
	assert.Equal(t, "hello", string(body))

	code, _, _ = get(t, srv.URL+"/static/docs/missing")
	assert.Equal(t, 404, code)
}
