package dto

// ── 通知模块响应 ──

// NotificationResponse 通知响应
type NotificationResponse struct {
	NotificationID string  `json:"notification_id"`
	Type           string  `json:"type"`
	Message        string  `json:"message"`
	IsRead         bool    `json:"is_read"`
	RelatedURL     *string `json:"related_url,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// UnreadCountResponse 未读数响应（页头角标）
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
