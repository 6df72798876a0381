package manifest

import (
	"testing"
)

func TestValidateFile_Valid(t *testing.T) {
	result, err := ValidateFile(testPath("valid-package.json"))
	if err != nil {
		t.Fatalf("ValidateFile error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
		for _, issue := range result.Issues {
			t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
		}
	}
}

func TestValidateFile_Invalid(t *testing.T) {
	invalidFiles := []struct {
		file    string
		desc    string
		keyword string
	}{
		{"invalid-missing-version.json", "missing required version", "required"},
		{"invalid-bad-name.json", "name violates pattern", "pattern"},
		{"invalid-dependency-type.json", "dependency version is not a string", "type"},
	}

	for _, tt := range invalidFiles {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s (%s), but got valid", tt.file, tt.desc)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
			}
			if !found {
				t.Errorf("no %q issue in %v", tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidateFile_InvalidJSON(t *testing.T) {
	_, err := ValidateFile(testPath("invalid-not-json.json"))
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	_, err := ValidateFile(testPath("nonexistent.json"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestValidate_IssuePath(t *testing.T) {
	result, err := ValidateFile(testPath("invalid-bad-name.json"))
	if err != nil {
		t.Fatalf("ValidateFile error: %v", err)
	}
	if result.Valid || len(result.Issues) == 0 {
		t.Fatal("expected issues")
	}
	issue := result.Issues[0]
	if issue.Path != "/name" {
		t.Errorf("Path = %q, want %q", issue.Path, "/name")
	}
	if issue.Message == "" {
		t.Error("Message should not be empty")
	}
	if issue.String() != issue.Path+": "+issue.Message {
		t.Errorf("String() = %q", issue.String())
	}
}
