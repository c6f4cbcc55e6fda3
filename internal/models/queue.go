package models

import "time"

// QueueAction тип отложенной мутации
type QueueAction string

const (
	QueueActionCreate QueueAction = "create"
	QueueActionUpdate QueueAction = "update"
	QueueActionDelete QueueAction = "delete"
	QueueActionUpsert QueueAction = "upsert"
)

// IsWrite reports whether the action results in a remote upsert.
func (a QueueAction) IsWrite() bool {
	return a == QueueActionCreate || a == QueueActionUpdate || a == QueueActionUpsert
}

// QueueItem представляет мутацию, ожидающую применения на сервере.
// Изменяется только при drain (RetryCount, LastError).
type QueueItem struct {
	EnqueuedAt time.Time   `json:"enqueued_at"`
	Payload    *Shift      `json:"payload"`
	ID         string      `json:"id"`        // ID собственный uuid элемента
	RecordID   string      `json:"record_id"` // RecordID смена, к которой относится мутация
	Action     QueueAction `json:"action"`
	LastError  string      `json:"last_error,omitempty"`
	Seq        uint64      `json:"seq"`         // Seq ключ в очереди, задает FIFO порядок
	RetryCount int         `json:"retry_count"` // RetryCount количество неудачных попыток drain
}

// DeadLetter хранит элемент очереди, исчерпавший лимит попыток
type DeadLetter struct {
	FailedAt time.Time  `json:"failed_at"`
	Item     *QueueItem `json:"item"`
	Reason   string     `json:"reason"`
}
