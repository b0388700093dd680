// Package sprout implements a spaced-repetition scheduling engine.
//
// sprout maps persisted per-card records onto the internal memory state of
// an FSRS v6 forgetting-curve engine (the sprout/fsrs subpackage), grades
// recall outcomes into new card states, applies the bury / suspend /
// unsuspend / reset lifecycle operations, and orders review queues so that
// sibling cards never cluster. Every operation is a pure function over
// in-memory values: no I/O, no clocks, no mutation of inputs.
//
// The subpackages layer the surrounding workflow on top: config loads
// scheduling profiles, session runs study and practice sittings, stats
// aggregates collection analytics, and optimizer trains the engine weights
// from accumulated review logs.
//
// Basic usage:
//
//	s, err := sprout.NewScheduler(sprout.Settings{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state := sprout.NewCardState(time.Now())
//	res, err := s.Grade(state, sprout.RatingGood, time.Now())
package sprout
