// Package export writes the workflow list as JSON to stdout, a file or S3.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/workflow-builder/pkg/adapters"
	"github.com/de-tools/workflow-builder/pkg/models/api"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
)

const (
	s3Scheme    = "s3://"
	contentType = "application/json"
)

// Uploader is the part of the S3 client the exporter needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploaderFactory builds an Uploader on first use, so credentials are only
// resolved when an s3 destination is requested.
type UploaderFactory func(ctx context.Context) (Uploader, error)

// NewS3Uploader uses the default AWS credential chain.
func NewS3Uploader(ctx context.Context) (Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

type Exporter struct {
	stdout      io.Writer
	newUploader UploaderFactory
}

func NewExporter(stdout io.Writer, newUploader UploaderFactory) *Exporter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if newUploader == nil {
		newUploader = NewS3Uploader
	}
	return &Exporter{
		stdout:      stdout,
		newUploader: newUploader,
	}
}

// Export writes workflows to dest: "" or "-" for stdout, s3://bucket/key for
// S3, anything else is a local file path.
func (e *Exporter) Export(ctx context.Context, workflows []domain.Workflow, dest string) error {
	switch {
	case dest == "" || dest == "-":
		return Encode(e.stdout, workflows)
	case strings.HasPrefix(dest, s3Scheme):
		return e.upload(ctx, workflows, dest)
	default:
		return e.writeFile(workflows, dest)
	}
}

// Encode writes workflows in the shape of the list endpoint.
func Encode(w io.Writer, workflows []domain.Workflow) error {
	body := api.WorkflowList{Workflows: make([]api.Workflow, 0, len(workflows))}
	for _, wf := range workflows {
		body.Workflows = append(body.Workflows, adapters.MapDomainWorkflowToAPI(wf))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("failed to encode workflows: %w", err)
	}
	return nil
}

func (e *Exporter) writeFile(workflows []domain.Workflow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, workflows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) upload(ctx context.Context, workflows []domain.Workflow, dest string) error {
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, workflows); err != nil {
		return err
	}

	uploader, err := e.newUploader(ctx)
	if err != nil {
		return err
	}

	_, err = uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to %s: %w", dest, err)
	}
	return nil
}

// ParseS3URL splits s3://bucket/key. Both parts are required.
func ParseS3URL(dest string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(dest, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", dest)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url must look like s3://bucket/key, got %q", dest)
	}
	return bucket, key, nil
}
