// Package runner исполняет проверки эндпоинтов и собирает результаты.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"awareid-qa/client"
	"awareid-qa/model"
)

// Call выполняет один вызов API; runner сам измеряет длительность.
type Call func(ctx context.Context) (*client.Response, error)

// Validator проверяет тело успешного ответа и возвращает список претензий.
type Validator func(resp *client.Response) []string

// Check описывает одну проверку эндпоинта.
type Check struct {
	Name           string
	Endpoint       string
	ExpectedStatus int
	// WarnOver — порог длительности; превышение попадает в предупреждения
	// результата, не влияя на успешность. Ноль отключает порог.
	WarnOver   time.Duration
	Call       Call
	Validators []Validator
}

// Sink принимает готовые результаты; его реализует results.Batcher.
type Sink interface {
	Enqueue(result model.TestResult) bool
}

// Runner выполняет проверки последовательно и отправляет итоги в sink.
type Runner struct {
	sink    Sink
	results []model.TestResult
}

// New создаёт runner; sink может быть nil, тогда итоги копятся только в памяти.
func New(sink Sink) *Runner {
	return &Runner{sink: sink}
}

// Run исполняет проверку: вызывает эндпоинт, сверяет статус, применяет
// валидаторы и фиксирует результат.
func (r *Runner) Run(ctx context.Context, check Check) model.TestResult {
	result := model.TestResult{
		Name:     check.Name,
		Endpoint: check.Endpoint,
		Success:  true,
		RanAt:    time.Now(),
	}

	started := time.Now()
	resp, err := check.Call(ctx)
	elapsed := time.Since(started)
	result.DurationMs = elapsed.Milliseconds()

	if check.WarnOver > 0 && elapsed > check.WarnOver {
		result.AddWarning(fmt.Sprintf("вызов занял %s при пороге %s", elapsed.Round(time.Millisecond), check.WarnOver))
	}

	if err != nil {
		result.AddError(err.Error())
		r.record(result)
		return result
	}

	result.StatusCode = resp.StatusCode

	expected := check.ExpectedStatus
	if expected == 0 {
		expected = 200
	}
	if resp.StatusCode != expected {
		result.AddError(fmt.Sprintf("ожидался статус %d, получен %d", expected, resp.StatusCode))
		r.record(result)
		return result
	}

	for _, validate := range check.Validators {
		for _, problem := range validate(resp) {
			result.AddError(problem)
		}
	}

	r.record(result)
	return result
}

func (r *Runner) record(result model.TestResult) {
	r.results = append(r.results, result)

	status := "OK"
	if !result.Success {
		status = "FAIL"
	}
	log.Printf("проверка %q [%s]: %s за %d мс", result.Name, result.Endpoint, status, result.DurationMs)

	if r.sink != nil {
		if ok := r.sink.Enqueue(result); !ok {
			log.Printf("runner: результат %q отброшен переполненной очередью", result.Name)
		}
	}
}

// Summary агрегирует итоги всех выполненных проверок.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Summary возвращает сводку по выполненным проверкам.
func (r *Runner) Summary() Summary {
	s := Summary{Total: len(r.results)}
	for _, result := range r.results {
		if result.Success {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// Results возвращает накопленные результаты в порядке выполнения.
func (r *Runner) Results() []model.TestResult {
	out := make([]model.TestResult, len(r.results))
	copy(out, r.results)
	return out
}
