package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fileproxy/internal/pkg/httprange"
)

// S3Adapter streams objects from Amazon S3 or any S3-compatible service
// (MinIO and friends via the optional "endpoint" credential key).
//
// Credential keys: access_key_id, secret_access_key, session_token
// (optional), region, endpoint (optional).
// Location keys: bucket, key.
type S3Adapter struct{}

func NewS3Adapter() *S3Adapter { return &S3Adapter{} }

func (*S3Adapter) Provider() string { return ProviderS3 }

func (a *S3Adapter) Open(ctx context.Context, creds, location map[string]string, rng *httprange.Range) (io.ReadCloser, *Metadata, error) {
	client, err := a.client(ctx, creds)
	if err != nil {
		return nil, nil, &Error{Provider: ProviderS3, Op: "configure client", Err: err}
	}

	in := &s3.GetObjectInput{
		Bucket: aws.String(location["bucket"]),
		Key:    aws.String(location["key"]),
	}
	if rng != nil {
		// S3 takes the raw header form, e.g. "bytes=100-199" or "bytes=100-".
		in.Range = aws.String(rng.Header())
	}

	out, err := client.GetObject(ctx, in)
	if err != nil {
		return nil, nil, &Error{Provider: ProviderS3, Op: "get object", Err: err}
	}

	meta := &Metadata{ContentLength: -1}
	if out.ContentType != nil {
		meta.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		meta.ContentLength = *out.ContentLength
	}
	if out.ContentRange != nil {
		meta.ContentRange = *out.ContentRange
	}
	if out.ETag != nil {
		meta.ETag = *out.ETag
	}

	return out.Body, meta, nil
}

func (*S3Adapter) client(ctx context.Context, creds map[string]string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(creds["region"]),
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			creds["access_key_id"],
			creds["secret_access_key"],
			creds["session_token"],
		)),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := creds["endpoint"]; ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true // MinIO and most self-hosted S3 need path-style
		}
	}), nil
}
