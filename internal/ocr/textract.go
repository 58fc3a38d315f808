package ocr

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractConfig carries the AWS credentials for the Textract extractor.
type TextractConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// Textract extracts receipt text with Amazon Textract's synchronous
// DetectDocumentText API.
type Textract struct {
	client *textract.Client
}

// NewTextract creates a Textract extractor from static credentials.
func NewTextract(ctx context.Context, cfg TextractConfig) (*Textract, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("AWS credentials are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Textract{client: textract.NewFromConfig(awsCfg)}, nil
}

// ExtractText runs DetectDocumentText on the raw image bytes and joins the
// detected LINE blocks with newlines, preserving reading order.
func (t *Textract) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("no image data received")
	}

	out, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: image},
	})
	if err != nil {
		return "", fmt.Errorf("textract detection failed: %w", err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
