// Package fsrs implements the FSRS v6 forgetting-curve model that drives
// the sprout scheduling core.
//
// The package is self-contained: an Engine holds the 21 model weights plus
// step configuration, and Advance computes a card's next memory state from
// a grade. Callers normally do not use it directly — the sprout root
// package decodes persisted card state into a Card, drives the Engine, and
// encodes the result back.
//
//	e, err := fsrs.NewEngine(fsrs.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	card := fsrs.NewCard(time.Now())
//	card = e.Advance(card, fsrs.GradeGood, time.Now())
package fsrs
