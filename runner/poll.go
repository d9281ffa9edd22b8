package runner

import (
	"context"
	"fmt"
	"time"
)

// PollUntil линейно опрашивает условие с фиксированным интервалом, пока оно
// не выполнится или не истечёт таймаут. Ошибка условия прекращает опрос.
func PollUntil(ctx context.Context, timeout, interval time.Duration, condition func(ctx context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := condition(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("poll: условие не выполнилось за %s: %w", timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
