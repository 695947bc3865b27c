package ocr

import (
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// MaxImageSizeBytes is the largest inline image the Vision API accepts.
const MaxImageSizeBytes = 20 * 1024 * 1024

// GoogleVisionEngine implements Engine using Google Cloud Vision document
// text detection. Page segmentation modes have no Vision equivalent and are
// ignored.
type GoogleVisionEngine struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogleVisionEngine creates a Vision engine with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionEngine(ctx context.Context) (*GoogleVisionEngine, error) {
	const op = "NewGoogleVisionEngine"

	opts, err := credentialOptions()
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	return &GoogleVisionEngine{client: client}, nil
}

// NewGoogleVisionEngineWithClient creates an engine with an explicit client (for testing).
func NewGoogleVisionEngineWithClient(client *vision.ImageAnnotatorClient) *GoogleVisionEngine {
	return &GoogleVisionEngine{client: client}
}

func (g *GoogleVisionEngine) Name() string { return EngineVision }

// Recognize sends the image inline and returns the full text annotation.
func (g *GoogleVisionEngine) Recognize(ctx context.Context, in Input) (string, error) {
	const op = "Recognize"

	if len(in.Image) > MaxImageSizeBytes {
		return "", recognitionError(op, fmt.Errorf("image is %d bytes", len(in.Image)), "image too large for Vision API")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: in.Image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: languageHints(in.Language),
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", recognitionError(op, err, "Vision API call failed")
	}
	if len(resp.Responses) == 0 {
		return "", recognitionError(op, fmt.Errorf("empty response"), "no response from Vision API")
	}

	imgResp := resp.Responses[0]
	if imgResp.Error != nil {
		return "", recognitionError(op, fmt.Errorf("%s", imgResp.Error.Message), "Vision API error")
	}
	if imgResp.FullTextAnnotation == nil {
		return "", nil
	}
	return imgResp.FullTextAnnotation.Text, nil
}

// DetectOrientation is not offered by the Vision API.
func (g *GoogleVisionEngine) DetectOrientation(context.Context, Input) (int, error) {
	return 0, ErrOrientationUnsupported
}

// Close closes the underlying Vision client.
func (g *GoogleVisionEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// credentialOptions reads GOOGLE_CREDENTIALS (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path). Without either the client
// falls back to application default credentials.
func credentialOptions() ([]option.ClientOption, error) {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}, nil
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		if _, err := os.Stat(credFile); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
		}
		return []option.ClientOption{option.WithCredentialsFile(credFile)}, nil
	}
	return nil, nil
}
