package factory

import (
	"time"

	"github.com/mcoot/pipegame/internal/dependencies/mocks"
	"github.com/mcoot/pipegame/internal/storage/memory"
	"github.com/mcoot/pipegame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Storage backing both sessions and statistics
	Storage *memory.Storage

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewWithConfig(memory.DefaultConfig(), mockClock)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, store, mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		Storage:    store,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// QueueTwoByTwo queues random draws for a 2x2 board one quarter turn of the
// power source away from solved:
//
//	(0,0) elbow E (source)   (1,0) elbow S
//	(0,1) end N              (1,1) end N
//
// Turning (0,0) three times solves it with a single counted turn.
func (t *TestApp) QueueTwoByTwo() {
	t.MockRandom.QueueIntn(0, 0, 0, 0) // edge weights
	t.MockRandom.QueueIntn(0)          // power source
	t.MockRandom.QueueIntn(1, 0, 0, 0) // scramble
}
