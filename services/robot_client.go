package services

import (
	"errors"
	"fmt"
	"map-panel/models"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrRobotRequest - 로봇 서비스 요청 실패 (전송 오류 또는 2xx 이외 응답)
var ErrRobotRequest = errors.New("robot request failed")

// RobotClient - 원격 로봇 제어 서비스 클라이언트
type RobotClient struct {
	BaseURL string
	Timeout time.Duration
}

// NewRobotClient - 클라이언트 생성
func NewRobotClient(baseURL string, timeout time.Duration) *RobotClient {
	return &RobotClient{
		BaseURL: baseURL,
		Timeout: timeout,
	}
}

// FetchMapData - GET /map_data
//
// 응답 본문이 JSON 배열이 아니면 에러를 반환한다. 빈 배열은 정상 응답이다.
func (c *RobotClient) FetchMapData() ([]models.MapRecord, error) {
	var records []models.MapRecord

	agent := fiber.Get(c.BaseURL + "/map_data").Timeout(c.Timeout)
	code, body, errs := agent.Struct(&records)
	if err := requestError("map_data", code, body, errs); err != nil {
		return nil, err
	}

	return records, nil
}

// Move - GET /move_bot?dir=<direction>
//
// 성공 시 로봇 서비스의 응답 텍스트를 반환한다.
func (c *RobotClient) Move(dir models.Direction) (string, error) {
	agent := fiber.Get(c.BaseURL + "/move_bot").
		QueryString("dir=" + url.QueryEscape(string(dir))).
		Timeout(c.Timeout)

	code, body, errs := agent.String()
	if err := requestError("move_bot", code, []byte(body), errs); err != nil {
		return "", err
	}

	return body, nil
}

func requestError(endpoint string, code int, body []byte, errs []error) error {
	// 상태 코드가 2xx가 아니면 본문 파싱 오류보다 우선한다
	if len(errs) > 0 && (code < 200 || code > 299) && code != 0 {
		return fmt.Errorf("%w: %s: status %d", ErrRobotRequest, endpoint, code)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %w", ErrRobotRequest, endpoint, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("%w: %s: status %d: %s", ErrRobotRequest, endpoint, code, truncate(string(body), 120))
	}
	return nil
}

// truncate - 앞쪽 n개 문자(rune)만 남긴다
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
