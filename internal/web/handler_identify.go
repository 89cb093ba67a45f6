package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vbonduro/plantid/internal/service"
)

type identifyRequest struct {
	Image string `json:"image"`
}

// handleIdentify accepts either a multipart upload with an "image" file or a
// JSON body carrying a base64 image (optionally a data URI). Both paths pass
// the same header check before the model is called.
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var imageData []byte
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
		if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "failed to parse form"})
			return
		}

		file, _, ferr := r.FormFile("image")
		if ferr != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "image file required"})
			return
		}
		defer closeWithLog(file, "upload file", logger)

		data, rerr := io.ReadAll(file)
		if rerr != nil {
			writeJSON(w, logger, http.StatusInternalServerError, errorBody{Error: "failed to read file"})
			logger.Error("read upload failed", "error", rerr)
			return
		}
		imageData = data
	} else {
		// base64 inflates the payload by a third.
		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize*4/3+1024)

		var req identifyRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "invalid request body"})
			return
		}
		if strings.TrimSpace(req.Image) == "" {
			writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "image is required"})
			return
		}
		data, _, derr := service.DecodeImage(req.Image)
		if derr != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "image is not valid base64"})
			logger.Info("rejected image", "error", derr)
			return
		}
		imageData = data
	}

	mimeType, cfg, ierr := inspectImage(imageData)
	if ierr != nil {
		writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "unsupported image format"})
		logger.Info("rejected image", "error", ierr)
		return
	}
	logger.Debug("image accepted", "mime_type", mimeType, "width", cfg.Width, "height", cfg.Height)

	info, err := s.plants.IdentifyImage(r.Context(), imageData, mimeType)
	if err != nil {
		status, msg := identifyFailure(err)
		if status >= http.StatusInternalServerError {
			logger.Error("identify failed", "error", err)
		} else {
			logger.Info("identify rejected", "error", err)
		}
		writeJSON(w, logger, status, errorBody{Error: msg})
		return
	}

	writeJSON(w, logger, http.StatusOK, info)
}

// identifyFailure maps an identification error to a status and the message
// shown to the user.
func identifyFailure(err error) (int, string) {
	var ie *service.IdentifyError
	if !errors.As(err, &ie) {
		return http.StatusInternalServerError, service.ErrProcessingFailed.Message
	}
	switch ie.Kind {
	case service.KindNotAPlant, service.KindUnidentifiable:
		return http.StatusUnprocessableEntity, ie.Message
	default:
		return http.StatusInternalServerError, ie.Message
	}
}
