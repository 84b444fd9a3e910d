package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"sync"
	texttemplate "text/template"

	"github.com/shopforge/notification-service/internal/domain"
)

// Template file names inside each template directory.
const (
	subjectFile = "subject.tmpl"
	bodyFile    = "body.html"
)

// templatePair is a parsed subject/body pair, cached after first load.
type templatePair struct {
	subject *texttemplate.Template
	body    *htmltemplate.Template
}

// TemplateStore loads email templates from disk. Each template id maps to a
// directory under the base path holding subject.tmpl (text/template) and
// body.html (html/template). Parsed templates are cached for the process
// lifetime.
type TemplateStore struct {
	basePath string

	mu    sync.RWMutex
	cache map[string]*templatePair
}

// NewTemplateStore creates a store rooted at basePath.
func NewTemplateStore(basePath string) *TemplateStore {
	return &TemplateStore{
		basePath: basePath,
		cache:    make(map[string]*templatePair),
	}
}

// Render executes the template pair for templateID against data and returns
// the subject line and HTML body.
func (s *TemplateStore) Render(templateID string, data domain.RenderContext) (subject, body string, err error) {
	pair, err := s.load(templateID)
	if err != nil {
		return "", "", err
	}

	var subjBuf bytes.Buffer
	if err := pair.subject.Execute(&subjBuf, data); err != nil {
		return "", "", fmt.Errorf("execute subject template %s: %w", templateID, err)
	}
	var bodyBuf bytes.Buffer
	if err := pair.body.Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("execute body template %s: %w", templateID, err)
	}
	return subjBuf.String(), bodyBuf.String(), nil
}

// Exists reports whether a template directory for templateID is present and
// parseable.
func (s *TemplateStore) Exists(templateID string) bool {
	_, err := s.load(templateID)
	return err == nil
}

func (s *TemplateStore) load(templateID string) (*templatePair, error) {
	s.mu.RLock()
	pair, ok := s.cache[templateID]
	s.mu.RUnlock()
	if ok {
		return pair, nil
	}

	dir := filepath.Join(s.basePath, templateID)

	subjRaw, err := os.ReadFile(filepath.Join(dir, subjectFile))
	if err != nil {
		return nil, fmt.Errorf("read subject template for %s: %w", templateID, err)
	}
	bodyRaw, err := os.ReadFile(filepath.Join(dir, bodyFile))
	if err != nil {
		return nil, fmt.Errorf("read body template for %s: %w", templateID, err)
	}

	subjTmpl, err := texttemplate.New(subjectFile).Parse(string(subjRaw))
	if err != nil {
		return nil, fmt.Errorf("parse subject template for %s: %w", templateID, err)
	}
	bodyTmpl, err := htmltemplate.New(bodyFile).Parse(string(bodyRaw))
	if err != nil {
		return nil, fmt.Errorf("parse body template for %s: %w", templateID, err)
	}

	pair = &templatePair{subject: subjTmpl, body: bodyTmpl}

	s.mu.Lock()
	s.cache[templateID] = pair
	s.mu.Unlock()

	return pair, nil
}
