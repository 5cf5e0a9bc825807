package chat

// Contact 是用户在会话中保存的紧急联系人。
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
