// Package lightbox implements the modal image viewer's state machine.
//
// A Lightbox is a single session over one post's images. It owns the
// selection (which post, which image), wrap-around index navigation, the
// drag gesture tracker that turns horizontal drags into swipes, the
// keyboard listener registered while the session is open, and the scroll
// lock held for the session's lifetime.
//
// Everything here is driven from a single event loop. None of the types are
// safe for concurrent use.
package lightbox
