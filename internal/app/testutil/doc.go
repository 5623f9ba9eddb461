// Package testutil provides shared test helpers for the audio pipeline.
//
// It contains three components:
//
// 1. Database helpers (db_helpers.go):
//   - SetupTestStore: a temporary sqlite store with the schema in place
//   - SeedTranscriptions: records a handful of transcripts for query tests
//
// 2. Mock backend (mock_provider.go):
//   - MockProvider: a configurable provider.TranscriptionProvider that records calls
//
// 3. Fixtures (fixtures.go):
//   - WriteAudio: plain files in a library or working area
//   - WriteWAV: real PCM wav files at a chosen sample rate
//
// # Usage Examples
//
//	func TestWithStore(t *testing.T) {
//	    store := testutil.SetupTestStore(t)
//	    backend := testutil.NewMockProvider(provider.BackendWhisper)
//	    backend.ResponseMap["a.wav"] = "hello"
//	    // the store is closed when the test ends
//	}
package testutil
