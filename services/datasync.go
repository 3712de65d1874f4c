package services

import (
	"map-panel/logger"
	"time"
)

// DataSync pulls obstacle data from the robot and hands non-empty results
// to the panel. It never schedules itself; see Poller.
type DataSync struct {
	robot  RobotAPI
	panel  *Panel
	events *EventLog
	log    logger.Logger
}

// NewDataSync - 데이터 동기화 생성
func NewDataSync(robot RobotAPI, panel *Panel, events *EventLog, log logger.Logger) *DataSync {
	return &DataSync{
		robot:  robot,
		panel:  panel,
		events: events,
		log:    log.WithField("component", "datasync"),
	}
}

// Sync fetches /map_data once. It reports whether the panel snapshot was
// replaced; an empty result leaves the previous snapshot displayed.
func (ds *DataSync) Sync() (bool, error) {
	records, err := ds.robot.FetchMapData()
	if err != nil {
		ds.log.Errorf("❌ Error fetching map data: %v", err)
		ds.events.LogSync(0, err)
		return false, err
	}

	if !ds.panel.ApplySnapshot(records) {
		ds.log.Debugf("map data empty, keeping %d obstacles", ds.panel.Store().Len())
		return false, nil
	}

	ds.log.Infof("🗺️ 맵 갱신: 장애물 %d개", len(records))
	ds.events.LogSync(len(records), nil)
	return true, nil
}

// Poller - 주기적으로 Sync를 호출한다
type Poller struct {
	sync     *DataSync
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewPoller - interval마다 동기화하는 폴러 생성
func NewPoller(ds *DataSync, interval time.Duration) *Poller {
	return &Poller{
		sync:     ds,
		interval: interval,
	}
}

// Start - 폴링 시작 (interval이 0 이하면 아무것도 하지 않는다)
func (p *Poller) Start() {
	if p.interval <= 0 || p.stopChan != nil {
		return
	}
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})
	go p.run()
}

func (p *Poller) run() {
	defer close(p.doneChan)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			// 실패는 Sync 안에서 로깅된다
			_, _ = p.sync.Sync()
		}
	}
}

// Stop - 폴링 중지
func (p *Poller) Stop() {
	if p.stopChan == nil {
		return
	}
	close(p.stopChan)
	<-p.doneChan
	p.stopChan = nil
}
