package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"events-service/internal/api/responses"
	"events-service/internal/core/events"
	"events-service/internal/core/workbook"
	"events-service/internal/domain"
	"events-service/internal/storage"
)

// uploadField descreve um campo de arquivo aceito pelos endpoints de upload.
type uploadField struct {
	name  string
	label string
	delim rune
}

var uploadFields = []uploadField{
	{name: "reportFile", label: "Relatório por blocos", delim: ','},
	{name: "ledgerFile", label: "Planilha consolidada", delim: ','},
	{name: "ticketsFile", label: "Exportação de ingressos", delim: ';'},
}

// EventsHandler lida com as requisições da API relacionadas a eventos.
type EventsHandler struct {
	service events.Service
}

// NewEventsHandler cria um novo handler de eventos.
func NewEventsHandler(service events.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

// Register monta as rotas do handler no grupo informado.
func (h *EventsHandler) Register(group *gin.RouterGroup) {
	group.POST("/reconcile", h.HandleReconcile)
	group.POST("/analytics", h.HandleAnalytics)
	group.GET("/report", h.HandleReport)
	group.GET("/report/search", h.HandleSearchReport)
	group.GET("/events/:id/manual", h.HandleGetManualData)
	group.PUT("/events/:id/manual", h.HandlePutManualData)
	group.DELETE("/events/:id/manual", h.HandleDeleteManualData)
}

// readSources lê os arquivos enviados e devolve o texto de cada fonte.
// Retorna false quando a resposta de erro já foi enviada.
func (h *EventsHandler) readSources(c *gin.Context) (events.Sources, bool) {
	texts := make(map[string]string, len(uploadFields))
	for _, field := range uploadFields {
		header, err := c.FormFile(field.name)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("%s inválido", field.label), err.Error())
			return events.Sources{}, false
		}
		text, err := readUpload(header, field.delim)
		if err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, workbook.ErrUnsupportedFormat) {
				code = http.StatusBadRequest
			}
			responses.Error(c, code, fmt.Sprintf("Não foi possível ler o arquivo %s", header.Filename), err.Error())
			return events.Sources{}, false
		}
		texts[field.name] = text
	}

	src := events.Sources{
		Report:  texts["reportFile"],
		Ledger:  texts["ledgerFile"],
		Tickets: texts["ticketsFile"],
	}
	if src.Empty() {
		responses.Error(c, http.StatusBadRequest, "Envie ao menos um arquivo (reportFile, ledgerFile ou ticketsFile) em .csv, .xls ou .xlsx")
		return events.Sources{}, false
	}
	return src, true
}

func readUpload(header *multipart.FileHeader, delim rune) (string, error) {
	if !workbook.Supported(header.Filename) {
		return "", fmt.Errorf("%w: %s", workbook.ErrUnsupportedFormat, header.Filename)
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return workbook.ReadText(file, header.Filename, delim)
}

// HandleReconcile processa os arquivos enviados e devolve os eventos
// reconciliados. Com persist=true os eventos também são gravados.
func (h *EventsHandler) HandleReconcile(c *gin.Context) {
	src, ok := h.readSources(c)
	if !ok {
		return
	}

	reconciled, err := h.service.Reconcile(c.Request.Context(), src)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao reconciliar os eventos", err.Error())
		return
	}

	if persist, _ := strconv.ParseBool(c.PostForm("persist")); persist {
		if err := h.service.Persist(c.Request.Context(), reconciled); err != nil {
			responses.Error(c, errorStatus(err), "Erro ao salvar os eventos", err.Error())
			return
		}
	}

	responses.Success(c, reconciled, fmt.Sprintf("%d eventos reconciliados", len(reconciled)))
}

// HandleAnalytics devolve os indicadores do período para os arquivos enviados.
func (h *EventsHandler) HandleAnalytics(c *gin.Context) {
	src, ok := h.readSources(c)
	if !ok {
		return
	}

	reconciled, err := h.service.Reconcile(c.Request.Context(), src)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao reconciliar os eventos", err.Error())
		return
	}

	analysis := h.service.Analyze(reconciled)
	responses.Success(c, analysis, analysis.Headline)
}

// HandleReport devolve o relatório consolidado salvo.
func (h *EventsHandler) HandleReport(c *gin.Context) {
	rows, err := h.service.Report(c.Request.Context())
	if err != nil {
		responses.Error(c, errorStatus(err), "Erro ao gerar o relatório", err.Error())
		return
	}
	responses.Success(c, rows, "")
}

// HandleSearchReport busca eventos do relatório pelo nome.
func (h *EventsHandler) HandleSearchReport(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		responses.Error(c, http.StatusBadRequest, "Parâmetro q é obrigatório")
		return
	}
	n := 0
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			responses.Error(c, http.StatusBadRequest, "Parâmetro n deve ser um inteiro positivo")
			return
		}
		n = parsed
	}

	rows, err := h.service.SearchReport(c.Request.Context(), query, n)
	if err != nil {
		responses.Error(c, errorStatus(err), "Erro ao buscar no relatório", err.Error())
		return
	}
	responses.Success(c, rows, "")
}

// HandleGetManualData devolve os dados manuais de um evento.
func (h *EventsHandler) HandleGetManualData(c *gin.Context) {
	id := c.Param("id")
	data, err := h.service.ManualData(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, errorStatus(err), fmt.Sprintf("Dados manuais do evento %s indisponíveis", id), err.Error())
		return
	}
	responses.Success(c, data, "")
}

// HandlePutManualData grava custo, receita de bar e local de um evento.
// Campos omitidos mantêm o valor salvo.
func (h *EventsHandler) HandlePutManualData(c *gin.Context) {
	var body domain.ManualData
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo JSON inválido", err.Error())
		return
	}
	if (body.EventCost != nil && *body.EventCost < 0) || (body.BarGrossRevenue != nil && *body.BarGrossRevenue < 0) {
		responses.Error(c, http.StatusBadRequest, "Valores não podem ser negativos")
		return
	}

	id := c.Param("id")
	merged, err := h.service.SetManualData(c.Request.Context(), id, body)
	if err != nil {
		responses.Error(c, errorStatus(err), fmt.Sprintf("Erro ao salvar dados manuais do evento %s", id), err.Error())
		return
	}
	responses.Success(c, merged, "Dados manuais salvos")
}

// HandleDeleteManualData remove os dados manuais de um evento.
func (h *EventsHandler) HandleDeleteManualData(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.ClearManualData(c.Request.Context(), id); err != nil {
		responses.Error(c, errorStatus(err), fmt.Sprintf("Erro ao remover dados manuais do evento %s", id), err.Error())
		return
	}
	responses.Success(c, nil, "Dados manuais removidos")
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, events.ErrEmptyManualData):
		return http.StatusBadRequest
	case errors.Is(err, events.ErrNoSink), errors.Is(err, events.ErrNoOverrides):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
