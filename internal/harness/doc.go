// Package harness checks schema enumerations against expected output.
//
// Two kinds of expectation are supported.
//
// # Fixtures
//
// A fixture is a JSON array of flat configurations in the exact order a
// schema must enumerate them:
//
//	[
//	  {"type": "long", "length": 66},
//	  {"type": "long", "length": 72},
//	  {"type": "recurve"}
//	]
//
// Compare pulls from an enumerator in lock-step with the fixture and stops
// at the first mismatch, reported as a *MismatchError. AssertFixture wraps
// this for tests.
//
// # Golden files
//
// AssertGolden snapshots a full enumeration as canonical JSON lines under
// testdata/golden. To regenerate:
//
//	go test ./... -update
package harness
