package dto

type SessionSyncResponseDTO struct {
	Cleared     int64 `json:"cleared" example:"2"`
	Checked     int64 `json:"checked" example:"10"`
	Deactivated int64 `json:"deactivated" example:"1"`
	Failed      int64 `json:"failed" example:"0"`
}
