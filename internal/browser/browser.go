// Package browser abstracts the headless page-rendering engine used by the
// link resolvers.
package browser

import (
	"context"
	"time"
)

// Engine launches rendering sessions.
type Engine interface {
	Launch(ctx context.Context) (Session, error)
}

// PageOpener opens fresh pages.
type PageOpener interface {
	NewPage(ctx context.Context) (Page, error)
}

// Session is one running browser. Closing it closes all of its pages.
type Session interface {
	PageOpener
	Close() error
}

// Page is a single browser tab. Selectors are CSS selectors.
type Page interface {
	// Goto navigates to url and waits for the document to finish loading.
	Goto(ctx context.Context, url string) error
	// Type focuses selector and types text into it.
	Type(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
	// WaitForSelector blocks until selector is present in the DOM or timeout
	// elapses.
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	// Evaluate runs a JavaScript expression and decodes its result into out.
	Evaluate(ctx context.Context, expression string, out any) error
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)
	Close() error
}
