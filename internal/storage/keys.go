package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"servicenova/pkg/types"
)

// DocumentKey builds {user_id}/{document_type}_{unix_millis}{ext}. The user
// prefix keeps users apart and the timestamp lets one user upload the same
// document type more than once without overwriting.
func DocumentKey(userID string, documentType types.DocumentType, at time.Time, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s_%d%s", userID, documentType, at.UnixMilli(), ext)
}
