package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetManager(t *testing.T) {
	// Reset the singleton for testing
	globalManager = nil
	managerOnce = sync.Once{}

	// Test singleton behavior
	manager1 := GetManager()
	manager2 := GetManager()

	assert.NotNil(t, manager1)
	assert.Same(t, manager1, manager2, "GetManager should return the same instance")

	// Test initial state
	assert.NotNil(t, manager1.stopCh)
	assert.False(t, manager1.running)
}

func TestManager_IsRunning(t *testing.T) {
	// Reset the singleton for testing
	globalManager = nil
	managerOnce = sync.Once{}

	manager := GetManager()

	// Initial state should be not running
	assert.False(t, manager.IsRunning())

	// Manually set running state to test the method
	manager.mu.Lock()
	manager.running = true
	manager.mu.Unlock()

	assert.True(t, manager.IsRunning())

	// Reset running state
	manager.mu.Lock()
	manager.running = false
	manager.mu.Unlock()

	assert.False(t, manager.IsRunning())
}

func TestManager_StartStop(t *testing.T) {
	// Use a fresh instance instead of the singleton to avoid test interference
	manager := &Manager{stopCh: make(chan struct{})}

	manager.Start()
	assert.True(t, manager.IsRunning())

	// Starting twice must be a no-op
	manager.Start()
	assert.True(t, manager.IsRunning())

	manager.Stop()
	assert.False(t, manager.IsRunning())

	// Stopping twice must be a no-op
	manager.Stop()
	assert.False(t, manager.IsRunning())
}

func TestIntervalFromEnv(t *testing.T) {
	t.Setenv("TEST_INTERVAL_MINUTES", "15")
	assert.Equal(t, 15*time.Minute, intervalFromEnv("TEST_INTERVAL_MINUTES", 60))

	t.Setenv("TEST_INTERVAL_MINUTES", "not-a-number")
	assert.Equal(t, time.Hour, intervalFromEnv("TEST_INTERVAL_MINUTES", 60))

	assert.Equal(t, 24*time.Hour, intervalFromEnv("TEST_INTERVAL_UNSET", 24*60))
}
