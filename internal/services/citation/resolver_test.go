// File: internal/services/citation/resolver_test.go
package citation

import (
	"errors"
	"testing"

	"github.com/lexisg/go-lexi/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

func TestResolve_ValidLink(t *testing.T) {
	resolver := NewResolver(noopLogger{})

	target, err := resolver.Resolve(&domain.Citation{
		ID:        1,
		Link:      "https://documents.example/Dani_Devi_v_Pritam_Singh.pdf",
		Paragraph: "Para 7",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if target.URL != "https://documents.example/Dani_Devi_v_Pritam_Singh.pdf" {
		t.Errorf("unexpected URL: %q", target.URL)
	}
	if target.Fragment != "para-7" {
		t.Errorf("paragraph fragment not derived: %q", target.Fragment)
	}
}

func TestResolve_ExistingFragmentWins(t *testing.T) {
	resolver := NewResolver(noopLogger{})

	target, err := resolver.Resolve(&domain.Citation{
		Link:      "https://documents.example/judgment.pdf#page=3",
		Paragraph: "Para 7",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if target.Fragment != "page=3" {
		t.Errorf("link fragment overwritten: %q", target.Fragment)
	}
}

func TestResolve_InvalidLinks(t *testing.T) {
	resolver := NewResolver(noopLogger{})

	cases := []struct {
		name string
		link string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"relative", "/documents/judgment.pdf"},
		{"no scheme", "documents.example/judgment.pdf"},
		{"wrong scheme", "ftp://documents.example/judgment.pdf"},
		{"malformed", "https://%zz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(&domain.Citation{ID: 5, Link: tc.link})
			if err == nil {
				t.Fatal("expected resolve error")
			}
			var resolveErr *ResolveError
			if !errors.As(err, &resolveErr) {
				t.Fatalf("expected *ResolveError, got %T", err)
			}
		})
	}
}

func TestResolve_NilCitation(t *testing.T) {
	resolver := NewResolver(noopLogger{})

	if _, err := resolver.Resolve(nil); err == nil {
		t.Fatal("nil citation must resolve to an error, not a panic")
	}
}

func TestResolveLink(t *testing.T) {
	resolver := NewResolver(noopLogger{})

	target, err := resolver.ResolveLink("http://documents.example/a.pdf", "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if target.Paragraph != "" || target.Fragment != "" {
		t.Errorf("unexpected locator: %+v", target)
	}
}
