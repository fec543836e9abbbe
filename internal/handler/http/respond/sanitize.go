package respond

import (
	"regexp"
)

var (
	// URL 形式の DSN 内パスワード
	dsnURLPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
	// key=value 形式の DSN 内パスワード
	dsnKeywordPasswordPattern = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnURLPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = dsnKeywordPasswordPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
