package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gitstore/pkg/storage"
	"gitstore/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// Adapter implements storage.Backend on an S3 bucket, using the same
// sharded key layout as the loose object directory.
type Adapter struct {
	client *s3.Client
	bucket string
	prefix string
	log    *zap.Logger
}

// Config is used to build an Adapter.
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string // optional key prefix, e.g. "repos/foo/objects"
	AccessKeyID     string
	SecretAccessKey string
}

// NewAdapter builds the S3 client and makes sure the bucket exists.
func NewAdapter(ctx context.Context, cfg Config, log *zap.Logger) (*Adapter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO and most self-hosted gateways need path-style addressing
		o.UsePathStyle = true
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)})
	if err != nil {
		_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(cfg.Bucket)})
		if err != nil {
			// may race with another creator or lack permission; Put will surface real problems
			log.Warn("failed to ensure bucket exists", zap.String("bucket", cfg.Bucket), zap.Error(err))
		}
	}

	return &Adapter{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    log,
	}, nil
}

// transformKey maps a hash to its object key: "aabbcc..." -> "<prefix>/aa/bbcc...".
func (s *Adapter) transformKey(hash types.Hash) string {
	return joinKey(s.prefix, storage.ShardKey(hash))
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func (s *Adapter) Put(ctx context.Context, hash types.Hash, data []byte) error {
	if err := hash.Validate(); err != nil {
		return err
	}
	// HEAD is cheaper than PUT; records are immutable so existing ones are skipped
	exists, err := s.Has(ctx, hash)
	if err != nil {
		return fmt.Errorf("s3 put existence check failed: %w", err)
	}
	if exists {
		return nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.transformKey(hash)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/zlib"),
	})
	if err != nil {
		return fmt.Errorf("s3 put failed: %w", err)
	}
	s.log.Debug("object uploaded", zap.Stringer("hash", hash), zap.Int("size", len(data)))
	return nil
}

func (s *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	if err := hash.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.transformKey(hash)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	return resp.Body, nil
}

func (s *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	if err := hash.Validate(); err != nil {
		return false, err
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.transformKey(hash)),
	})
	if err == nil {
		return true, nil
	}

	var notFound *s3types.NotFound
	var noKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return false, nil
	}
	// some S3 implementations only return a generic 404
	if strings.Contains(err.Error(), "404") {
		return false, nil
	}
	return false, err
}

// ExpandHash lists at most two keys under the prefix: zero is not found,
// two is ambiguous.
func (s *Adapter) ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error) {
	p := prefix.Normalize()
	if len(p) < types.MinPrefixLen {
		return "", fmt.Errorf("%w: %q", storage.ErrPrefixTooShort, prefix)
	}

	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(joinKey(s.prefix, string(p[:2])+"/"+string(p[2:]))),
		MaxKeys: aws.Int32(2),
	})
	if err != nil {
		return "", fmt.Errorf("s3 list failed: %w", err)
	}

	switch aws.ToInt32(resp.KeyCount) {
	case 0:
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, p)
	case 1:
		return keyToHash(s.prefix, aws.ToString(resp.Contents[0].Key)), nil
	default:
		return "", fmt.Errorf("%w: %s", storage.ErrAmbiguousHash, p)
	}
}

// keyToHash undoes transformKey: "<prefix>/aa/bbcc..." -> "aabbcc...".
func keyToHash(prefix, key string) types.Hash {
	if prefix != "" {
		key = strings.TrimPrefix(key, prefix+"/")
	}
	return types.Hash(strings.Replace(key, "/", "", 1))
}

// Walk lists every record under the prefix, page by page. Keys that do
// not map back to an object name are skipped.
func (s *Adapter) Walk(ctx context.Context, fn func(types.Hash) error) error {
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3 list failed: %w", err)
		}
		for _, obj := range page.Contents {
			h, ok := walkKey(s.prefix, aws.ToString(obj.Key))
			if !ok {
				continue
			}
			if err := fn(h); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkKey maps a listed key to an object name if it has the sharded form.
func walkKey(prefix, key string) (types.Hash, bool) {
	if prefix != "" {
		if !strings.HasPrefix(key, prefix+"/") {
			return "", false
		}
		key = strings.TrimPrefix(key, prefix+"/")
	}
	if len(key) != types.HexSize+1 || key[2] != '/' {
		return "", false
	}
	h := types.Hash(key[:2] + key[3:])
	return h, h.IsValid()
}

var (
	_ storage.Backend = (*Adapter)(nil)
	_ storage.Walker  = (*Adapter)(nil)
)
