package services

import (
	"bytes"
	"errors"
	"map-panel/logger"
	"map-panel/models"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncFixture(t *testing.T) (*fakeRobot, *Panel, *DataSync, *EventLog) {
	t.Helper()

	robot := &fakeRobot{}
	events := NewEventLog(nil, logger.Discard(), 1000, 0)
	panel := NewPanel(robot, newRecordingSurface(800, 600), events, logger.Discard(), DefaultPanelOptions())
	t.Cleanup(panel.Close)

	return robot, panel, NewDataSync(robot, panel, events, logger.Discard()), events
}

func TestDataSyncAppliesRecords(t *testing.T) {
	robot, panel, ds, events := newSyncFixture(t)
	robot.records = mapRecords([2]float64{10, 20}, [2]float64{30, 40}, [2]float64{50, 60})

	replaced, err := ds.Sync()
	require.NoError(t, err)
	assert.True(t, replaced)

	cards := panel.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, []string{"Obstacle 1", "Obstacle 2", "Obstacle 3"},
		[]string{cards[0].Label, cards[1].Label, cards[2].Label})
	assert.Equal(t, 30.0, cards[1].X)
	assert.Equal(t, 3, panel.Store().Len())
	assert.Equal(t, 1, events.Pending())
}

func TestDataSyncEmptyKeepsSnapshot(t *testing.T) {
	robot, panel, ds, _ := newSyncFixture(t)
	robot.records = mapRecords([2]float64{10, 20}, [2]float64{30, 40})
	_, err := ds.Sync()
	require.NoError(t, err)
	before := panel.Snapshot()

	robot.records = []models.MapRecord{}
	replaced, err := ds.Sync()
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, before, panel.Snapshot())
}

func TestDataSyncLogsWithComponent(t *testing.T) {
	var buf bytes.Buffer
	robot := &fakeRobot{mapErr: errors.New("connection refused")}
	events := NewEventLog(nil, logger.Discard(), 1000, 0)
	panel := NewPanel(robot, newRecordingSurface(100, 100), events, logger.Discard(), DefaultPanelOptions())
	t.Cleanup(panel.Close)

	_, err := NewDataSync(robot, panel, events, logger.NewWriter(&buf)).Sync()
	require.Error(t, err)

	line := buf.String()
	assert.Contains(t, line, "[ERR]")
	assert.Contains(t, line, "connection refused")
	assert.Contains(t, line, "component=datasync")
}

func TestDataSyncFetchError(t *testing.T) {
	robot, panel, ds, events := newSyncFixture(t)
	robot.records = mapRecords([2]float64{10, 20})
	_, err := ds.Sync()
	require.NoError(t, err)

	robot.mapErr = errors.New("connection refused")
	replaced, err := ds.Sync()
	assert.Error(t, err)
	assert.False(t, replaced)
	assert.Len(t, panel.Cards(), 1)
	assert.Equal(t, 2, events.Pending())
}

// countingRobot - FetchMapData 호출 횟수를 센다
type countingRobot struct {
	fakeRobot
	calls atomic.Int32
}

func (c *countingRobot) FetchMapData() ([]models.MapRecord, error) {
	c.calls.Add(1)
	return c.fakeRobot.FetchMapData()
}

func TestPollerSyncsPeriodically(t *testing.T) {
	robot := &countingRobot{}
	robot.records = mapRecords([2]float64{1, 2})
	events := NewEventLog(nil, logger.Discard(), 1000, 0)
	panel := NewPanel(robot, newRecordingSurface(100, 100), events, logger.Discard(), DefaultPanelOptions())

	poller := NewPoller(NewDataSync(robot, panel, events, logger.Discard()), 5*time.Millisecond)
	poller.Start()

	assert.Eventually(t, func() bool { return robot.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	poller.Stop()

	stopped := robot.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, robot.calls.Load())
	assert.Len(t, panel.Cards(), 1)

	// 두 번째 Stop은 아무것도 하지 않는다
	poller.Stop()
}

func TestPollerDisabled(t *testing.T) {
	robot := &countingRobot{}
	events := NewEventLog(nil, logger.Discard(), 1000, 0)
	panel := NewPanel(robot, newRecordingSurface(100, 100), events, logger.Discard(), DefaultPanelOptions())

	poller := NewPoller(NewDataSync(robot, panel, events, logger.Discard()), 0)
	poller.Start()
	time.Sleep(10 * time.Millisecond)
	poller.Stop()

	assert.Zero(t, robot.calls.Load())
}
