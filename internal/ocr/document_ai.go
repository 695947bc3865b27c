package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"recipescan/internal/logger"
)

const (
	// MaxDocumentSizeBytes is the maximum document size for processing (20MB)
	MaxDocumentSizeBytes = 20 * 1024 * 1024

	// DefaultDocumentAILocation is used when no location is configured.
	DefaultDocumentAILocation = "us"
)

// DocumentAIConfig holds settings for a Document AI OCR processor.
type DocumentAIConfig struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
	Timeout          time.Duration
}

// DocumentAIEngine implements Engine using a Google Document AI OCR processor.
// It answers orientation queries from the page layout of the same response
// type, so each query costs one processor call.
type DocumentAIEngine struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIEngine creates an engine with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
func NewDocumentAIEngine(ctx context.Context, config DocumentAIConfig) (*DocumentAIEngine, error) {
	const op = "NewDocumentAIEngine"

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = DefaultDocumentAILocation
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	clientOptions, err := credentialOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}
	hasCredentials := len(clientOptions) > 0

	// Regional endpoint for anything but the default multi-region
	if config.Location != DefaultDocumentAILocation {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCredentials {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewDocumentAIEngineWithClient(config, client), nil
}

// NewDocumentAIEngineWithClient creates an engine with explicit config and client (for testing).
func NewDocumentAIEngineWithClient(config DocumentAIConfig, client *documentai.DocumentProcessorClient) *DocumentAIEngine {
	return &DocumentAIEngine{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

func (p *DocumentAIEngine) Name() string { return EngineDocumentAI }

// Recognize returns the document text. Page segmentation modes are ignored.
func (p *DocumentAIEngine) Recognize(ctx context.Context, in Input) (string, error) {
	const op = "Recognize"

	doc, err := p.process(ctx, in)
	if err != nil {
		return "", recognitionError(op, err, in.ID)
	}
	return doc.GetText(), nil
}

// DetectOrientation reads the layout orientation of the first page.
func (p *DocumentAIEngine) DetectOrientation(ctx context.Context, in Input) (int, error) {
	const op = "DetectOrientation"

	doc, err := p.process(ctx, in)
	if err != nil {
		return 0, WrapOCRError(op, err, "")
	}
	pages := doc.GetPages()
	if len(pages) == 0 {
		return 0, WrapOCRError(op, ErrOrientationUnsupported, "response has no pages")
	}
	return orientationDegrees(pages[0].GetLayout().GetOrientation())
}

func orientationDegrees(o documentaipb.Document_Page_Layout_Orientation) (int, error) {
	switch o {
	case documentaipb.Document_Page_Layout_PAGE_UP:
		return 0, nil
	case documentaipb.Document_Page_Layout_PAGE_RIGHT:
		return 90, nil
	case documentaipb.Document_Page_Layout_PAGE_DOWN:
		return 180, nil
	case documentaipb.Document_Page_Layout_PAGE_LEFT:
		return 270, nil
	default:
		return 0, ErrOrientationUnsupported
	}
}

func (p *DocumentAIEngine) process(ctx context.Context, in Input) (*documentaipb.Document, error) {
	const op = "process"

	if len(in.Image) > MaxDocumentSizeBytes {
		return nil, WrapOCRError(op, ErrInvalidImage, fmt.Sprintf("file size: %d bytes", len(in.Image)))
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  in.Image,
				MimeType: "image/png",
			},
		},
	}
	if hints := languageHints(in.Language); len(hints) > 0 {
		req.ProcessOptions = &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{LanguageHints: hints},
			},
		}
	}

	start := time.Now()
	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, p.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return nil, WrapOCRError(op, ErrRecognition, "no document in response")
	}

	p.log.Debug().
		Str("input", in.ID).
		Dur("duration", time.Since(start)).
		Int("chars", len(resp.GetDocument().GetText())).
		Msg("document processed")

	return resp.GetDocument(), nil
}

// processorName constructs the full processor name for Document AI API.
func (p *DocumentAIEngine) processorName() string {
	if p.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			p.config.ProjectID, p.config.Location, p.config.ProcessorID, p.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to OCR errors.
func (p *DocumentAIEngine) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapOCRError(op, ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapOCRError(op, ErrInvalidImage, "image format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "Canceled") || strings.Contains(errStr, "context canceled"):
		return WrapOCRError(op, context.Canceled, "processing was canceled")
	default:
		return WrapOCRError(op, err, "Document AI error")
	}
}

// Close closes the underlying Document AI client.
func (p *DocumentAIEngine) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
