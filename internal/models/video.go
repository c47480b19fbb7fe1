package models

import "time"

// Video describes one stored media object. Content is streamed separately.
type Video struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	Filename    string    `bson:"filename" json:"filename"`
	ContentType string    `bson:"content_type" json:"contentType"`
	Key         string    `bson:"key,omitempty" json:"-"` // object key, s3 backend only
	SizeBytes   int64     `bson:"size" json:"sizeBytes"`
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploadedAt"`
}

const DefaultVideoContentType = "video/mp4"
