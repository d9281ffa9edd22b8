// Package payload собирает JSON тела запросов к AwareID API.
package payload

import "time"

const DefaultWorkflow = "charlie4"

// FaceFrame — один кадр видео для проверки живости лица.
type FaceFrame struct {
	Data      string   `json:"data"`
	Timestamp int64    `json:"timestamp"`
	Tags      []string `json:"tags"`
}

// NewFaceFrame создаёт кадр с текущей меткой времени в миллисекундах.
func NewFaceFrame(base64Data string, tags ...string) FaceFrame {
	if tags == nil {
		tags = []string{}
	}
	return FaceFrame{
		Data:      base64Data,
		Timestamp: time.Now().UnixMilli(),
		Tags:      tags,
	}
}

// FaceLiveness — структура faceLivenessData с кадрами и метаданными.
type FaceLiveness struct {
	Video struct {
		MetaData struct {
			Username string `json:"username"`
		} `json:"meta_data"`
		WorkflowData struct {
			Workflow string      `json:"workflow"`
			Frames   []FaceFrame `json:"frames"`
		} `json:"workflow_data"`
	} `json:"video"`
}

// NewFaceLiveness собирает данные живости; пустой workflow заменяется
// значением по умолчанию.
func NewFaceLiveness(frames []FaceFrame, workflow, username string) FaceLiveness {
	if workflow == "" {
		workflow = DefaultWorkflow
	}
	if username == "" {
		username = "unknown_user"
	}

	var liveness FaceLiveness
	liveness.Video.MetaData.Username = username
	liveness.Video.WorkflowData.Workflow = workflow
	liveness.Video.WorkflowData.Frames = frames
	return liveness
}

// DeviceFingerprint описывает устройство пользователя.
type DeviceFingerprint struct {
	DeviceID string `json:"deviceId"`
	Platform string `json:"platform"`
	Browser  string `json:"browser,omitempty"`
	OS       string `json:"os,omitempty"`
}

// Document — тело запроса проверки документа.
type Document struct {
	DocumentImages []string `json:"documentImages"`
	DocumentType   string   `json:"documentType"`
	Country        string   `json:"country,omitempty"`
}

// Voice — тело запроса голосовой биометрии.
type Voice struct {
	AudioData  string `json:"audioData"`
	Format     string `json:"format"`
	SampleRate int    `json:"sampleRate,omitempty"`
	DurationMs int    `json:"durationMs,omitempty"`
}

// Enrollment объединяет биометрические данные одной сессии регистрации.
// Незаполненные виды биометрии в JSON не попадают.
type Enrollment struct {
	EnrollmentToken   string             `json:"enrollmentToken"`
	FaceLivenessData  *FaceLiveness      `json:"faceLivenessData,omitempty"`
	VoiceData         *Voice             `json:"voiceData,omitempty"`
	DeviceFingerprint *DeviceFingerprint `json:"deviceFingerprint,omitempty"`
}

// EnrollRequest — тело инициации регистрации.
type EnrollRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// CancelRequest — тело отмены сессии с необязательной причиной.
type CancelRequest struct {
	EnrollmentToken string `json:"enrollmentToken,omitempty"`
	Reason          string `json:"reason,omitempty"`
}
