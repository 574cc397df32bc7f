package context

type Key string

const (
	Principal Key = "principal"
	RequestID Key = "request_id"
)
