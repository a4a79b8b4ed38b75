package viva

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/saulo-duarte/viva-lambda/internal/config"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 1 << 20

type Handler struct {
	service        Service
	maxUploadBytes int64
}

func NewHandler(s Service, maxUploadBytes int64) *Handler {
	return &Handler{service: s, maxUploadBytes: maxUploadBytes}
}

// GetAnswer reads optional text or file content and answers with one
// randomly selected viva question.
func (h *Handler) GetAnswer(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	content, err := h.readContent(w, r)
	if err != nil {
		log.WithError(err).Error("Failed to read request content")
		config.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sel, err := h.service.SelectQuestion(r.Context(), content)
	if err != nil {
		log.WithError(err).Error("Failed to select question")
		config.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !sel.Found() {
		log.WithError(sel.Result.Err).WithField("generation_id", sel.Result.ID).Warn("No question to return")
		config.JSON(w, http.StatusOK, NoQuestionsResponse{Error: NoQuestionsMessage})
		return
	}

	config.JSON(w, http.StatusOK, AnswerResponse{SelectedQuestion: sel.Question})
}

func (h *Handler) readContent(w http.ResponseWriter, r *http.Request) (Content, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return Content{}, fmt.Errorf("parse form: %w", err)
		}
		if err := r.ParseForm(); err != nil {
			return Content{}, fmt.Errorf("parse form: %w", err)
		}
	}

	text := r.PostFormValue("text")

	var data []byte
	if r.MultipartForm != nil && len(r.MultipartForm.File["file"]) > 0 {
		f, err := r.MultipartForm.File["file"][0].Open()
		if err != nil {
			return Content{}, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			return Content{}, fmt.Errorf("read upload: %w", err)
		}
		if data == nil {
			data = []byte{}
		}
	}

	return ResolveContent(text, data)
}
