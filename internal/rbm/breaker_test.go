package rbm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMicroBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewMicroBreaker(2, time.Minute)

	assert.True(t, b.TryAcquire())
	b.OnFailure()
	assert.True(t, b.TryAcquire())
	b.OnFailure()

	// threshold reached, circuit open
	assert.False(t, b.TryAcquire())
}

func TestMicroBreaker_ProbeAfterOpenWindow(t *testing.T) {
	b := NewMicroBreaker(1, 10*time.Millisecond)

	b.OnFailure()
	assert.False(t, b.TryAcquire())

	time.Sleep(20 * time.Millisecond)

	// one probe allowed, concurrent callers stay blocked
	assert.True(t, b.TryAcquire())
	assert.False(t, b.TryAcquire())

	b.OnSuccess()
	assert.True(t, b.TryAcquire())
}

func TestMicroBreaker_FailedProbeReopens(t *testing.T) {
	b := NewMicroBreaker(1, 10*time.Millisecond)

	b.OnFailure()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.TryAcquire())
	b.OnFailure()

	assert.False(t, b.TryAcquire())
}

func TestMicroBreaker_SuccessResetsCount(t *testing.T) {
	b := NewMicroBreaker(2, time.Minute)

	b.OnFailure()
	b.OnSuccess()
	b.OnFailure()

	assert.True(t, b.TryAcquire(), "consecutive failure count must reset on success")
}
