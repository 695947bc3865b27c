package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OCR_ENGINE", "OCR_LANGUAGE", "OCR_WORKERS", "OCR_COUNT_UNIT", "BATCH_WORKERS", "GOOGLE_SHEET_WORKSHEET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OCREngine != "tesseract" || cfg.OCRLanguage != "deu" || cfg.OCRWorkers != 4 {
		t.Fatalf("ocr defaults = %+v", cfg)
	}
	if cfg.OCRCountUnit != "piece" || cfg.BatchWorkers != 4 || cfg.GoogleSheetWorksheet != "Rezepte" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if got := cfg.EngineConfig().Engine; got != "tesseract" {
		t.Fatalf("engine = %q", got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown engine", map[string]string{"OCR_ENGINE": "abbyy"}, "OCR_ENGINE"},
		{"documentai without project", map[string]string{"OCR_ENGINE": "documentai", "GOOGLE_CLOUD_PROJECT": "", "DOCUMENT_AI_PROCESSOR_ID": "p"}, "GOOGLE_CLOUD_PROJECT"},
		{"documentai without processor", map[string]string{"OCR_ENGINE": "DocumentAI", "GOOGLE_CLOUD_PROJECT": "p", "DOCUMENT_AI_PROCESSOR_ID": ""}, "DOCUMENT_AI_PROCESSOR_ID"},
		{"workers not a number", map[string]string{"OCR_ENGINE": "", "OCR_WORKERS": "viele"}, "OCR_WORKERS"},
		{"no batch workers", map[string]string{"OCR_ENGINE": "", "OCR_WORKERS": "", "BATCH_WORKERS": "0"}, "BATCH_WORKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadDocumentAI(t *testing.T) {
	t.Setenv("OCR_ENGINE", "documentai")
	t.Setenv("OCR_WORKERS", "")
	t.Setenv("BATCH_WORKERS", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "kochbuch")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "eu")
	t.Setenv("DOCUMENT_AI_PROCESSOR_ID", "abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ec := cfg.EngineConfig()
	if ec.Engine != "documentai" || ec.ProjectID != "kochbuch" || ec.Location != "eu" || ec.ProcessorID != "abc123" {
		t.Fatalf("engine config = %+v", ec)
	}
}
