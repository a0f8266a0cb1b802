package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	helpers "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/stretchr/testify/assert"

	"github.com/launchdarkly/ld-offline-feature/model"
)

const (
	testRetryInterval = time.Millisecond * 100
	helpersTimeout    = time.Second * 3
)

type watcherTestParams struct {
	t              *testing.T
	dir            string
	watcher        *Watcher
	watcherError   error
	messageHandler *testMessageHandler
	mockLog        *ldlogtest.MockLog
}

type testMessage struct {
	name    string
	updated *model.OfflineFeature
	deleted bool
}

func (m testMessage) String() string {
	if m.updated != nil {
		return fmt.Sprintf("updated(%s, %s)", m.name, model.MarshalFeature(m.updated))
	}
	if m.deleted {
		return fmt.Sprintf("deleted(%s)", m.name)
	}
	return "???"
}

type testMessageHandler struct {
	received chan testMessage
}

func newTestMessageHandler() *testMessageHandler {
	return &testMessageHandler{
		received: make(chan testMessage, 10),
	}
}

func (h *testMessageHandler) FeatureUpdated(name string, f *model.OfflineFeature) {
	h.received <- testMessage{name: name, updated: f}
}

func (h *testMessageHandler) FeatureDeleted(name string) {
	h.received <- testMessage{name: name, deleted: true}
}

func watcherTest(t *testing.T, setupDir func(dir string), action func(p watcherTestParams)) {
	helpers.WithTempDir(func(dir string) {
		setupDir(dir)

		mockLog := ldlogtest.NewMockLog()
		mockLog.Loggers.SetMinLevel(ldlog.Debug)
		defer mockLog.DumpIfTestFailed(t)

		messageHandler := newTestMessageHandler()

		watcher, err := NewWatcher(dir, messageHandler, testRetryInterval, mockLog.Loggers)
		if watcher != nil {
			defer watcher.Close()
		}

		action(watcherTestParams{t, dir, watcher, err, messageHandler, mockLog})
	})
}

func (p watcherTestParams) requireMessage() testMessage {
	return helpers.RequireValue(p.t, p.messageHandler.received, 2*time.Second, "timed out waiting for message")
}

func (p watcherTestParams) requireNoMoreMessages() {
	if !helpers.AssertNoMoreValues(p.t, p.messageHandler.received, 50*time.Millisecond, "received unexpected message") {
		p.t.FailNow()
	}
}

func (p watcherTestParams) expectUpdated(name string, expected *model.OfflineFeature) {
	msg := p.requireMessage()
	assert.Equal(p.t, name, msg.name, "message: %s", msg)
	if assert.NotNil(p.t, msg.updated, "message: %s", msg) {
		assert.True(p.t, expected.Equal(msg.updated), "message: %s", msg)
	}
}

func (p watcherTestParams) expectDeleted(name string) {
	msg := p.requireMessage()
	assert.Equal(p.t, name, msg.name, "message: %s", msg)
	assert.True(p.t, msg.deleted, "message: %s", msg)
}
