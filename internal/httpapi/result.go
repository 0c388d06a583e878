package httpapi

// Envelope 统一响应信封：
// - success: bool
// - 数据放在各端点自己的键下（assets / alerts / kpis ...）
// - 失败时附带 error: string
type Envelope map[string]interface{}

// Ok 成功响应，fields 为端点数据键
func Ok(fields Envelope) Envelope {
	out := Envelope{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Fail 失败响应
func Fail(message string) Envelope {
	return Envelope{"success": false, "error": message}
}
