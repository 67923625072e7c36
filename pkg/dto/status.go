package dto

type Status struct {
	Bindings      int64 `json:"bindings"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}
