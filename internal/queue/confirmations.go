package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const confirmationList = "careportal:booking_confirmations"

var ErrEmpty = errors.New("queue empty")

// BookingConfirmation is the payload pushed after a successful booking and
// consumed by the notifier process. It carries everything the notifier needs
// so it never reads the appointment store.
type BookingConfirmation struct {
	AppointmentID string    `json:"appointmentId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	DoctorName    string    `json:"doctorName"`
	Specialist    string    `json:"specialist"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	RequestedAt   time.Time `json:"requestedAt"`
}

type ConfirmationQueue struct {
	rdb *redis.Client
}

func NewConfirmationQueue(rdb *redis.Client) *ConfirmationQueue {
	return &ConfirmationQueue{rdb: rdb}
}

func (q *ConfirmationQueue) Enqueue(ctx context.Context, msg BookingConfirmation) error {
	raw, err := json.Marshal(msg)

	if err != nil {
		return err
	}

	return q.rdb.LPush(ctx, confirmationList, raw).Err()
}

// Dequeue blocks up to timeout waiting for the next payload. Returns
// ErrEmpty when the wait expires with nothing to do.
func (q *ConfirmationQueue) Dequeue(ctx context.Context, timeout time.Duration) (BookingConfirmation, error) {
	var msg BookingConfirmation

	res, err := q.rdb.BRPop(ctx, timeout, confirmationList).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return msg, ErrEmpty
		}
		return msg, err
	}

	// BRPOP returns [key, value]
	if len(res) != 2 {
		return msg, ErrEmpty
	}

	err = json.Unmarshal([]byte(res[1]), &msg)

	return msg, err
}
