// internal/form/fake_page_test.go
package form

import (
	"context"
	"errors"
	"strings"
)

// fakePage is a scriptable in-memory Page. Tests populate dom with the
// exact XPath queries the code under test will issue and the handles
// they should yield.
type fakePage struct {
	dom      map[string][]string
	findErr  map[string]error
	attrs    map[string]map[string]string
	texts    map[string]string
	visible  map[string]bool
	location string

	// evalResult is returned by Evaluate for the script-scan.
	evalResult string
	evalErr    error

	// interceptNative makes native clicks on these handles fail,
	// simulating an overlay intercepting the pointer event.
	interceptNative map[string]bool
	scriptClickErr  map[string]error

	clicks       []string
	scriptClicks []string
	filled       map[string]string
	scrolled     []string
	screenshots  int
	closed       bool
}

func newFakePage() *fakePage {
	return &fakePage{
		dom:             map[string][]string{},
		findErr:         map[string]error{},
		attrs:           map[string]map[string]string{},
		texts:           map[string]string{},
		visible:         map[string]bool{},
		interceptNative: map[string]bool{},
		scriptClickErr:  map[string]error{},
		filled:          map[string]string{},
	}
}

func (p *fakePage) setAttr(handle, name, value string) {
	if p.attrs[handle] == nil {
		p.attrs[handle] = map[string]string{}
	}
	p.attrs[handle][name] = value
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.location = url
	return nil
}

func (p *fakePage) FindAll(ctx context.Context, xpath string) ([]string, error) {
	if err := p.findErr[xpath]; err != nil {
		return nil, err
	}
	return p.dom[xpath], nil
}

func (p *fakePage) Attribute(ctx context.Context, xpath, name string) (string, bool, error) {
	value, ok := p.attrs[xpath][name]
	return value, ok, nil
}

func (p *fakePage) Text(ctx context.Context, xpath string) (string, error) {
	text, ok := p.texts[xpath]
	if !ok {
		return "", errors.New("no text for handle")
	}
	return text, nil
}

func (p *fakePage) Visible(ctx context.Context, xpath string) (bool, error) {
	return p.visible[xpath], nil
}

func (p *fakePage) Click(ctx context.Context, xpath string) error {
	if p.interceptNative[xpath] {
		return errors.New("element click intercepted")
	}
	p.clicks = append(p.clicks, xpath)
	p.setAttr(xpath, "aria-checked", "true")
	return nil
}

func (p *fakePage) ClickScript(ctx context.Context, xpath string) error {
	if err := p.scriptClickErr[xpath]; err != nil {
		return err
	}
	p.scriptClicks = append(p.scriptClicks, xpath)
	p.setAttr(xpath, "aria-checked", "true")
	return nil
}

func (p *fakePage) ScrollIntoView(ctx context.Context, xpath string) error {
	p.scrolled = append(p.scrolled, xpath)
	return nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	return nil
}

func (p *fakePage) ClearAndFill(ctx context.Context, xpath, value string) error {
	p.filled[xpath] = value
	return nil
}

func (p *fakePage) Evaluate(ctx context.Context, script string, out any) error {
	if p.evalErr != nil {
		return p.evalErr
	}
	if target, ok := out.(*string); ok && strings.Contains(script, "absoluteXPath") {
		*target = p.evalResult
	}
	return nil
}

func (p *fakePage) Location(ctx context.Context) (string, error) {
	return p.location, nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	p.screenshots++
	return []byte("png"), nil
}

func (p *fakePage) Close(ctx context.Context) error {
	p.closed = true
	return nil
}

func (p *fakePage) totalClicks() int {
	return len(p.clicks) + len(p.scriptClicks)
}
