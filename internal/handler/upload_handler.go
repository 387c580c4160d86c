package handler

import (
	"errors"
	"net/http"

	apperrors "zeme/internal/errors"
	"zeme/internal/service"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
)

// UploadFormField is the multipart field carrying the file.
const UploadFormField = "file"

// UploadHandler handles file uploads.
type UploadHandler struct {
	service service.UploadServicer
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service service.UploadServicer) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload godoc
// @Summary      Upload file
// @Description  Store a JPEG, PNG or PDF of at most 5MB and return its public URL
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  response.Response{data=models.UploadResponse}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Security     BearerAuth
// @Router       /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	// Leave room for multipart framing around a maximum size file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadSize+1<<20)

	fh, err := c.FormFile(UploadFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.BadRequest(c, apperrors.ErrFileTooLarge.Error())
			return
		}
		response.BadRequest(c, apperrors.ErrNoFile.Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	result, err := h.service.Upload(c.Request.Context(), fh.Filename, fh.Size, f)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, result)
}
