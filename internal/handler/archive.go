package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rVladislavrr/codes/internal/repo"
	"github.com/rVladislavrr/codes/internal/service"
	"github.com/rVladislavrr/codes/pkg/huffman"
)

const (
	mimeProtobuf = "application/x-protobuf"
	mimeBinary   = "application/octet-stream"
	HeaderTag    = "X-Archive-Tag"
)

type ArchiveHandler struct {
	svc       *service.ArchiveService
	maxUpload int64
}

func NewArchiveHandler(s *service.ArchiveService, maxUpload int64) *ArchiveHandler {
	return &ArchiveHandler{svc: s, maxUpload: maxUpload}
}

/*** ---------- 아카이브 ---------- ***/

// Create는 multipart "file" 필드 또는 ?name= 과 raw body를 받는다.
func (h *ArchiveHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	name, data, err := h.readUpload(c)
	if err != nil {
		abort(c, err)
		return
	}
	a, err := h.svc.Compress(c.Request.Context(), name, data)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *ArchiveHandler) readUpload(c *gin.Context) (string, []byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", nil, badRequest(fmt.Errorf("file: %w", err))
		}
		f, err := fh.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return fh.Filename, data, err
	}

	data, err := io.ReadAll(c.Request.Body)
	return c.Query("name"), data, err
}

func (h *ArchiveHandler) GetByID(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	a.Container = nil

	if strings.Contains(c.GetHeader("Accept"), mimeProtobuf) {
		b, err := marshalStruct(a)
		if err != nil {
			abort(c, err)
			return
		}
		c.Data(http.StatusOK, mimeProtobuf, b)
		return
	}
	c.JSON(http.StatusOK, a)
}

// marshalStruct는 JSON 표현을 그대로 protobuf Struct로 옮긴다.
func marshalStruct(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func (h *ArchiveHandler) List(c *gin.Context) {
	archives, err := h.svc.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, archives)
}

func (h *ArchiveHandler) Container(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	attachment(c, huffman.CompressedName(a.Name))
	c.Data(http.StatusOK, mimeBinary, a.Container)
}

func (h *ArchiveHandler) Content(c *gin.Context) {
	data, a, err := h.svc.Decompress(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.Header(HeaderTag, a.Tag)
	attachment(c, huffman.DecompressedName(huffman.CompressedName(a.Name), a.Tag))
	c.Data(http.StatusOK, mimeBinary, data)
}

func (h *ArchiveHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/*** ---------- 저장 없는 인코드/디코드 ---------- ***/

func (h *ArchiveHandler) Encode(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abort(c, err)
		return
	}
	out, err := h.svc.Encode(data, c.Query("tag"))
	if err != nil {
		abort(c, err)
		return
	}
	c.Data(http.StatusOK, mimeBinary, out)
}

func (h *ArchiveHandler) Decode(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	container, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abort(c, err)
		return
	}
	data, tag, err := h.svc.Decode(container)
	if err != nil {
		abort(c, err)
		return
	}
	c.Header(HeaderTag, tag)
	c.Data(http.StatusOK, mimeBinary, data)
}

/*** ---------- HTML ---------- ***/

func (h *ArchiveHandler) Index(c *gin.Context) {
	archives, err := h.svc.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"archives": archives})
}

/*** ---------- 에러 매핑 ---------- ***/

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error { return badRequestError{err} }

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	var bad badRequestError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, huffman.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &bad),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, huffman.ErrEmptyInput),
		errors.Is(err, huffman.ErrTagTooLong),
		errors.Is(err, huffman.ErrExtensionDecode):
		return http.StatusBadRequest
	case errors.Is(err, huffman.ErrTruncatedContainer),
		errors.Is(err, huffman.ErrUnknownCode),
		errors.Is(err, huffman.ErrInvalidContainer):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}
