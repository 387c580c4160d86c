package models

// UploadResponse describes a stored file.
type UploadResponse struct {
	FileName string `json:"fileName" example:"3f2b7c1e-8d4a-4b55-9a6e-0c1d2e3f4a5b.jpg"`
	FilePath string `json:"filePath" example:"https://cdn.example.com/zeme-uploads/uploads/3f2b7c1e-8d4a-4b55-9a6e-0c1d2e3f4a5b.jpg"`
}
