package services

import (
	"map-panel/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MoveStep - 방향 이동 한 번의 거리
const MoveStep = 10.0

// ApplyMove - 방향 명령을 위치에 적용한 결과
//
// forward는 -y, backward는 +y, left는 -x, right는 +x.
// 알 수 없는 방향은 위치를 바꾸지 않는다.
func ApplyMove(pos models.Position, dir models.Direction) models.Position {
	switch dir {
	case models.DirectionForward:
		pos.Y -= MoveStep
	case models.DirectionBackward:
		pos.Y += MoveStep
	case models.DirectionLeft:
		pos.X -= MoveStep
	case models.DirectionRight:
		pos.X += MoveStep
	}
	return pos
}

// Animator runs at most one timed animation at a time. Each run is keyed by
// a token; starting a new run stops the previous one.
type Animator struct {
	mu       sync.Mutex
	token    string
	stopChan chan struct{}
}

// NewAnimator - 애니메이터 생성
func NewAnimator() *Animator {
	return &Animator{}
}

// Start runs step(i) for i = 1..steps, one call per interval, then calls
// finish. If the run is stopped or replaced before the last step, finish is
// not called. The returned channel is closed when the goroutine exits.
func (a *Animator) Start(steps int, interval time.Duration, step func(i int), finish func()) (string, <-chan struct{}) {
	a.mu.Lock()
	if a.stopChan != nil {
		close(a.stopChan)
	}
	token := uuid.New().String()
	stop := make(chan struct{})
	a.token = token
	a.stopChan = stop
	a.mu.Unlock()

	done := make(chan struct{})
	go a.run(token, stop, done, steps, interval, step, finish)

	return token, done
}

func (a *Animator) run(token string, stop <-chan struct{}, done chan<- struct{}, steps int, interval time.Duration, step func(int), finish func()) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; i <= steps; i++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		// Stop과 틱이 동시에 준비된 경우 Stop 우선
		select {
		case <-stop:
			return
		default:
		}
		step(i)
	}

	if !a.release(token) {
		return
	}
	finish()
}

// release clears the active token if it still belongs to this run.
func (a *Animator) release(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != token {
		return false
	}
	a.token = ""
	a.stopChan = nil
	return true
}

// Stop - 진행 중인 애니메이션 중지. 중지한 것이 있으면 true.
func (a *Animator) Stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopChan == nil {
		return false
	}
	close(a.stopChan)
	a.stopChan = nil
	a.token = ""
	return true
}

// Active - 현재 실행 중인 애니메이션 토큰 ("" 이면 없음)
func (a *Animator) Active() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}
