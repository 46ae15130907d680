package manifest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/fair-research/concierge-cli/models"
	"github.com/samber/lo"
)

// Reports whether a listed object belongs in the manifest.
type FilterFunc func(obj types.Object) bool

// Skips folder placeholder objects.
func SkipFolders(obj types.Object) bool {
	key := aws.ToString(obj.Key)
	return key != "" && !strings.HasSuffix(key, "/")
}

// S3Builder lists a bucket prefix and turns every object into a remote file
// manifest entry.
type S3Builder struct {
	API s3.ListObjectsV2APIClient
	// Region used to build object URLs on AWS.
	Region string
	// Custom S3 compatible endpoint. Object URLs are path style when set.
	Endpoint string
	// Defaults to SkipFolders.
	Filter FilterFunc
}

// Create an S3 client, pointed at a custom endpoint when one is given.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, r string, options ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					PartitionID:       "aws",
					URL:               endpoint,
					SigningRegion:     r,
					HostnameImmutable: true,
				}, nil
			}
			// returning EndpointNotFoundError will allow the service to fallback to it's default resolution
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(customResolver))
	}

	awscfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, apierrors.Wrapf(err, "failed to load AWS SDK config")
	}

	return s3.NewFromConfig(awscfg, func(o *s3.Options) {
		o.UsePathStyle = endpoint != ""
	}), nil
}

// Split an s3://bucket/prefix URI.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 URI %q: %w", uri, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: expected s3://bucket/prefix", uri)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Build a manifest for every object under the URI's prefix.
func (b *S3Builder) Build(ctx context.Context, uri string) ([]models.RemoteFile, error) {
	if b.API == nil {
		return nil, errors.New("no S3 client configured")
	}
	bucket, prefix, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	filter := b.Filter
	if filter == nil {
		filter = SkipFolders
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	files := []models.RemoteFile{}
	paginator := s3.NewListObjectsV2Paginator(b.API, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apierrors.Wrapf(err, "failed to list s3://%s/%s", bucket, prefix)
		}

		objects := lo.Filter(page.Contents, func(obj types.Object, _ int) bool {
			return filter(obj)
		})
		files = append(files, lo.Map(objects, func(obj types.Object, _ int) models.RemoteFile {
			return b.remoteFile(bucket, prefix, obj)
		})...)
		console.Verbose("Listed %d objects under s3://%s/%s", len(page.Contents), bucket, prefix)
	}

	unsummed := lo.Filter(files, func(f models.RemoteFile, _ int) bool {
		return f.MD5 == ""
	})
	if len(unsummed) > 0 {
		console.Warning("No MD5 checksum for %d multipart object(s): %s", len(unsummed), strings.Join(lo.Map(unsummed, func(f models.RemoteFile, _ int) string {
			return f.Filename
		}), ", "))
	}

	return files, nil
}

func (b *S3Builder) remoteFile(bucket, prefix string, obj types.Object) models.RemoteFile {
	key := aws.ToString(obj.Key)

	// Names are relative to the prefix's last folder, so a partial
	// prefix like "run1" keeps "run1/a" and "run10/a" apart.
	base := prefix[:strings.LastIndex(prefix, "/")+1]
	filename := strings.TrimPrefix(key, base)
	if filename == "" {
		filename = path.Base(key)
	}

	return models.RemoteFile{
		URL:      b.objectURL(bucket, key),
		Length:   obj.Size,
		Filename: filename,
		MD5:      md5FromETag(aws.ToString(obj.ETag)),
	}
}

func (b *S3Builder) objectURL(bucket, key string) string {
	escaped := strings.Join(lo.Map(strings.Split(key, "/"), func(part string, _ int) string {
		return url.PathEscape(part)
	}), "/")

	if b.Endpoint != "" {
		return strings.TrimRight(b.Endpoint, "/") + "/" + bucket + "/" + escaped
	}
	region := b.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
}

// Single part uploads have the object's MD5 as their ETag. Multipart ETags
// carry a part count suffix and are not a checksum of the content.
func md5FromETag(etag string) string {
	etag = strings.Trim(etag, `"`)
	if len(etag) != 32 || strings.Contains(etag, "-") {
		return ""
	}
	return etag
}
