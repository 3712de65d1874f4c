package services

import (
	"errors"
	"fmt"
	"io"
	"map-panel/algorithms"
	"map-panel/logger"
	"map-panel/models"
	"sync"
	"time"
)

var (
	ErrNotArmed          = errors.New("destination selection is not armed")
	ErrSelectionDisabled = errors.New("destination selection is disabled")
	ErrNoDestination     = errors.New("no destination placed")
	ErrObstacleNotFound  = errors.New("obstacle not found")
	ErrInvalidZoom       = fmt.Errorf("zoom level must be between %v and %v", models.MinZoom, models.MaxZoom)
	ErrNoImage           = errors.New("surface cannot be encoded as an image")
)

// RobotAPI - 패널이 사용하는 원격 로봇 서비스
type RobotAPI interface {
	FetchMapData() ([]models.MapRecord, error)
	Move(dir models.Direction) (string, error)
}

// PanelOptions - 패널 초기 설정
type PanelOptions struct {
	Zoom              float64
	Start             models.Position
	AnimationSteps    int
	AnimationInterval time.Duration
}

// DefaultPanelOptions - 줌 1, 시작 위치 (50, 50), 10ms 간격 100스텝
func DefaultPanelOptions() PanelOptions {
	return PanelOptions{
		Zoom:              1,
		Start:             models.Position{X: 50, Y: 50},
		AnimationSteps:    100,
		AnimationInterval: 10 * time.Millisecond,
	}
}

// Panel owns the whole panel state and serialises every interaction on it.
// Each mutation re-renders the surface and broadcasts the change.
type Panel struct {
	robot     RobotAPI
	store     *ObstacleStore
	renderer  *MapRenderer
	surface   Surface
	animator  *Animator
	events    *EventLog
	log       logger.Logger
	broadcast func(models.WebSocketMessage)

	steps    int
	interval time.Duration

	mu          sync.Mutex
	position    models.Position
	destination *models.Position
	zoom        float64
	focused     *models.Obstacle
	selection   models.SelectionState
	cards       []models.ObstacleCard
	animToken   string
}

// NewPanel - 패널 생성. 생성 직후 한 번 렌더링한다.
func NewPanel(robot RobotAPI, surface Surface, events *EventLog, log logger.Logger, opts PanelOptions) *Panel {
	if !models.ValidZoom(opts.Zoom) {
		opts.Zoom = 1
	}
	if opts.AnimationSteps <= 0 {
		opts.AnimationSteps = 100
	}
	if opts.AnimationInterval <= 0 {
		opts.AnimationInterval = 10 * time.Millisecond
	}

	p := &Panel{
		robot:     robot,
		store:     NewObstacleStore(),
		renderer:  NewMapRenderer(),
		surface:   surface,
		animator:  NewAnimator(),
		events:    events,
		log:       log.WithField("component", "panel"),
		broadcast: func(models.WebSocketMessage) {},
		steps:     opts.AnimationSteps,
		interval:  opts.AnimationInterval,
		position:  opts.Start,
		zoom:      opts.Zoom,
		selection: models.SelectionIdle,
	}

	p.mu.Lock()
	p.renderLocked()
	p.mu.Unlock()

	return p
}

// SetBroadcastFunc - 상태 변경 알림 함수 설정
func (p *Panel) SetBroadcastFunc(fn func(models.WebSocketMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn == nil {
		fn = func(models.WebSocketMessage) {}
	}
	p.broadcast = fn
}

// Store - 장애물 스토어
func (p *Panel) Store() *ObstacleStore {
	return p.store
}

// ========================================
// 데이터 동기화 반영
// ========================================

// ApplySnapshot replaces the obstacle store with records, re-renders and
// rebuilds the card list. An empty list changes nothing and returns false.
func (p *Panel) ApplySnapshot(records []models.MapRecord) bool {
	p.mu.Lock()
	if !p.store.Replace(records) {
		p.mu.Unlock()
		return false
	}

	// 포커스는 같은 ID가 새 스냅샷에 있으면 유지, 없으면 해제
	if p.focused != nil {
		if ob, ok := p.store.Get(p.focused.ID); ok {
			p.focused = &ob
		} else {
			p.focused = nil
		}
	}

	p.rebuildCardsLocked()
	p.renderLocked()
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeMapUpdate, state))
	return true
}

func (p *Panel) rebuildCardsLocked() {
	obstacles := p.store.All()
	cards := make([]models.ObstacleCard, len(obstacles))
	for i, ob := range obstacles {
		cards[i] = models.ObstacleCard{
			ID:          ob.ID,
			Label:       fmt.Sprintf("Obstacle %d", ob.ID+1),
			X:           ob.X,
			Y:           ob.Y,
			Distance:    ob.Distance,
			Image:       ob.Image,
			Highlighted: p.focused != nil && p.focused.ID == ob.ID,
		}
	}
	p.cards = cards
}

// ========================================
// 방향 이동
// ========================================

// Move sends a directional command to the robot. Only after the robot
// acknowledges it is the local position updated with ApplyMove.
func (p *Panel) Move(dir models.Direction) (models.Position, error) {
	msg, err := p.robot.Move(dir)
	if err != nil {
		p.log.Errorf("❌ Error moving robot (%s): %v", dir, err)
		pos := p.Position()
		p.events.LogMove(dir, pos, err)
		return pos, err
	}
	p.log.Infof("🤖 %s", msg)

	p.mu.Lock()
	p.position = ApplyMove(p.position, dir)
	p.renderLocked()
	pos := p.position
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypePosition, pos))
	p.events.LogMove(dir, pos, nil)
	return pos, nil
}

// ========================================
// 목적지 선택
// ========================================

// SelectDestination arms the canvas for one destination click. Arming an
// already armed panel is a no-op.
func (p *Panel) SelectDestination() error {
	p.mu.Lock()
	switch p.selection {
	case models.SelectionArmed:
		p.mu.Unlock()
		return nil
	case models.SelectionPlaced, models.SelectionAnimating:
		p.mu.Unlock()
		return ErrSelectionDisabled
	}
	p.selection = models.SelectionArmed
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeSelection, state))
	return nil
}

// PlaceDestination maps a page click to canvas coordinates, stores the
// destination in model space and disarms selection.
func (p *Panel) PlaceDestination(click models.CanvasClick) (models.Position, error) {
	p.mu.Lock()
	if p.selection != models.SelectionArmed {
		p.mu.Unlock()
		return models.Position{}, ErrNotArmed
	}

	canvasX := click.PageX - click.CanvasLeft
	canvasY := click.PageY - click.CanvasTop
	dest := models.Position{X: canvasX / p.zoom, Y: canvasY / p.zoom}

	p.destination = &dest
	p.selection = models.SelectionPlaced
	p.renderLocked()
	pos := p.position
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeSelection, state))
	p.events.LogEvent(models.EventDestinationSet, pos, &dest)
	p.log.Infof("📍 목적지 설정: (%.1f, %.1f)", dest.X, dest.Y)
	return dest, nil
}

// MoveToDestination animates the robot toward the placed destination in
// equal increments, one per animation interval. The returned channel is
// closed when the animation goroutine exits.
func (p *Panel) MoveToDestination() (<-chan struct{}, error) {
	p.mu.Lock()
	if p.selection != models.SelectionPlaced || p.destination == nil {
		p.mu.Unlock()
		return nil, ErrNoDestination
	}

	start := p.position
	target := *p.destination
	step := algorithms.StepToward(
		algorithms.Point{X: start.X, Y: start.Y},
		algorithms.Point{X: target.X, Y: target.Y},
		p.steps,
	)

	// 클로저는 p.mu를 잡은 뒤에만 token을 읽는다
	var token string
	token, done := p.animator.Start(p.steps, p.interval,
		func(int) { p.advance(&token, step) },
		func() { p.finishAnimation(&token) },
	)
	p.animToken = token
	p.selection = models.SelectionAnimating
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeSelection, state))
	p.events.LogEvent(models.EventAnimationStart, start, &target)
	p.log.Infof("🚀 목적지 이동 시작: (%.1f, %.1f) → (%.1f, %.1f)", start.X, start.Y, target.X, target.Y)
	return done, nil
}

func (p *Panel) advance(token *string, step algorithms.Point) {
	p.mu.Lock()
	if p.animToken == "" || p.animToken != *token {
		p.mu.Unlock()
		return
	}
	p.position = p.position.Add(step.X, step.Y)
	p.renderLocked()
	pos := p.position
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypePosition, pos))
}

func (p *Panel) finishAnimation(token *string) {
	p.mu.Lock()
	if p.animToken == "" || p.animToken != *token {
		p.mu.Unlock()
		return
	}
	p.animToken = ""
	p.destination = nil
	p.selection = models.SelectionIdle
	p.renderLocked()
	pos := p.position
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeSelection, state))
	p.events.LogEvent(models.EventAnimationDone, pos, nil)
	p.log.Infof("🏁 목적지 도착: (%.1f, %.1f)", pos.X, pos.Y)
}

// ========================================
// 포커스 / 줌
// ========================================

// FocusObstacle focuses a copy of the obstacle with the given ID and marks
// its card as the only highlighted one.
func (p *Panel) FocusObstacle(id int) error {
	p.mu.Lock()
	ob, ok := p.store.Get(id)
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrObstacleNotFound, id)
	}
	p.focused = &ob
	for i := range p.cards {
		p.cards[i].Highlighted = p.cards[i].ID == id
	}
	p.renderLocked()
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeCards, state))
	p.events.LogFocus(id)
	p.log.Debugf("Obstacle Card %d clicked!", id+1)
	return nil
}

// SetZoom - 줌 변경 후 다시 그린다 ([models.MinZoom, models.MaxZoom] 밖이면 ErrInvalidZoom)
func (p *Panel) SetZoom(zoom float64) error {
	if !models.ValidZoom(zoom) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, zoom)
	}

	p.mu.Lock()
	p.zoom = zoom
	p.renderLocked()
	state := p.snapshotLocked()
	broadcast := p.broadcast
	p.mu.Unlock()

	broadcast(newMessage(models.MessageTypeMapUpdate, state))
	p.events.LogEvent(models.EventZoom, state.Position, nil)
	return nil
}

// ========================================
// 조회
// ========================================

// Position - 현재 로봇 위치
func (p *Panel) Position() models.Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Cards - 장애물 카드 목록 복사본
func (p *Panel) Cards() []models.ObstacleCard {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ObstacleCard(nil), p.cards...)
}

// Snapshot - 패널 상태 스냅샷
func (p *Panel) Snapshot() models.PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Panel) snapshotLocked() models.PanelState {
	st := models.PanelState{
		Position:                 p.position,
		ZoomLevel:                p.zoom,
		Selection:                p.selection,
		SelectEnabled:            p.selection == models.SelectionIdle || p.selection == models.SelectionArmed,
		MoveToDestinationVisible: p.selection == models.SelectionPlaced || p.selection == models.SelectionAnimating,
		Obstacles:                p.store.All(),
		Cards:                    append([]models.ObstacleCard(nil), p.cards...),
	}
	if p.destination != nil {
		d := *p.destination
		st.Destination = &d
	}
	if p.focused != nil {
		f := *p.focused
		st.Focused = &f
	}
	return st
}

// WritePNG - 현재 캔버스를 PNG로 출력
func (p *Panel) WritePNG(w io.Writer) error {
	enc, ok := p.surface.(interface{ EncodePNG(io.Writer) error })
	if !ok {
		return ErrNoImage
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return enc.EncodePNG(w)
}

// Close - 진행 중인 애니메이션 중지
func (p *Panel) Close() {
	if p.animator.Stop() {
		p.mu.Lock()
		p.animToken = ""
		p.selection = models.SelectionPlaced
		p.mu.Unlock()
		p.events.LogEvent(models.EventAnimationStopped, p.Position(), nil)
		p.log.Warnf("🛑 목적지 이동 중단")
	}
}

func (p *Panel) renderLocked() {
	p.renderer.Render(p.surface, RenderState{
		Zoom:        p.zoom,
		Obstacles:   p.store.All(),
		Robot:       p.position,
		Destination: p.destination,
		Focused:     p.focused,
	})
}

func newMessage(msgType string, data interface{}) models.WebSocketMessage {
	return models.WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}
