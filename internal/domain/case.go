package domain

import (
	"strconv"
	"strings"
)

// CaseColumns encabezado canónico de la hoja DATOS, en orden de columna.
// La columna A (índice 0) es el identificador del caso. El orden posicional
// es parte del contrato con la hoja remota: Row y CaseFromRow dependen de él.
var CaseColumns = []string{
	"id", "fecha_digitacion", "funcionario_reporta", "eps_reporta",
	"semana_epidemiologica", "ciclo_vital", "intento_previo",
	"nombres", "apellidos", "tipo_documento", "numero_documento",
	"edad", "sexo", "municipio_residencia",
	"fecha_notificacion_sivigila", "fecha_atencion_medicina",
	"hospitalizacion", "fecha_alta",
	"valoracion_psicologia", "fecha_psicologia",
	"valoracion_psiquiatria", "fecha_psiquiatria",
	"seguimiento_1", "seguimiento_2", "seguimiento_3",
	"ruta_salud_mental", "asiste_servicios",
	"seguimiento_7dias_postalta", "fecha_seguimiento_postalta",
	"num_seguimientos_realizados", "abandono_tratamiento",
	"reintento_posterior", "estado_caso", "observaciones",
	"ultima_modificacion_por", "ultima_modificacion_fecha",
}

// CaseRecord una fila de la hoja DATOS: un intento de suicidio reportado.
// El identificador es inmutable una vez asignado. Las fechas viajan como
// texto "YYYY-MM-DD" (o vacío), tal como las guarda la hoja.
type CaseRecord struct {
	ID         string `json:"id"`
	CapturedAt string `json:"fecha_digitacion"`
	ReportedBy string `json:"funcionario_reporta"`

	ReportingEPS string `json:"eps_reporta"`
	// OtherEPS viaja solo en el alta/edición cuando ReportingEPS es EPSOther;
	// no es una columna de la hoja y nunca se persiste.
	OtherEPS string `json:"eps_otra,omitempty"`

	EpiWeek      int    `json:"semana_epidemiologica"`
	LifeCycle    string `json:"ciclo_vital"`
	PriorAttempt string `json:"intento_previo"` // "SI" | "NO"

	FirstNames     string `json:"nombres"`
	Surnames       string `json:"apellidos"`
	DocumentType   string `json:"tipo_documento"`
	DocumentNumber string `json:"numero_documento"`
	Age            int    `json:"edad"`
	Sex            string `json:"sexo"`
	Municipality   string `json:"municipio_residencia"`

	NotificationDate    string `json:"fecha_notificacion_sivigila"`
	GeneralMedicineDate string `json:"fecha_atencion_medicina"`
	Hospitalization     string `json:"hospitalizacion"`
	DischargeDate       string `json:"fecha_alta"`

	PsychologyAssessment string `json:"valoracion_psicologia"`
	PsychologyDate       string `json:"fecha_psicologia"`
	PsychiatryAssessment string `json:"valoracion_psiquiatria"`
	PsychiatryDate       string `json:"fecha_psiquiatria"`

	FollowUp1 string `json:"seguimiento_1"`
	FollowUp2 string `json:"seguimiento_2"`
	FollowUp3 string `json:"seguimiento_3"`

	MentalHealthPathway   string `json:"ruta_salud_mental"`
	AttendsServices       string `json:"asiste_servicios"`
	PostDischargeFollowUp string `json:"seguimiento_7dias_postalta"`
	PostDischargeDate     string `json:"fecha_seguimiento_postalta"`
	FollowUpCount         int    `json:"num_seguimientos_realizados"`
	TreatmentAbandoned    string `json:"abandono_tratamiento"`
	LaterReattempt        string `json:"reintento_posterior"`

	Status     string `json:"estado_caso"`
	Notes      string `json:"observaciones"`
	ModifiedBy string `json:"ultima_modificacion_por"`
	ModifiedAt string `json:"ultima_modificacion_fecha"`
}

// Row serializes the record positionally following CaseColumns.
// Every column is always written; absent values become the empty string.
func (c *CaseRecord) Row() []string {
	return []string{
		c.ID, c.CapturedAt, c.ReportedBy, c.ReportingEPS,
		strconv.Itoa(c.EpiWeek), c.LifeCycle, c.PriorAttempt,
		c.FirstNames, c.Surnames, c.DocumentType, c.DocumentNumber,
		strconv.Itoa(c.Age), c.Sex, c.Municipality,
		c.NotificationDate, c.GeneralMedicineDate,
		c.Hospitalization, c.DischargeDate,
		c.PsychologyAssessment, c.PsychologyDate,
		c.PsychiatryAssessment, c.PsychiatryDate,
		c.FollowUp1, c.FollowUp2, c.FollowUp3,
		c.MentalHealthPathway, c.AttendsServices,
		c.PostDischargeFollowUp, c.PostDischargeDate,
		strconv.Itoa(c.FollowUpCount), c.TreatmentAbandoned,
		c.LaterReattempt, c.Status, c.Notes,
		c.ModifiedBy, c.ModifiedAt,
	}
}

// CaseFromRow decodes a positional row. Short rows are padded with empty
// strings; numeric columns that fail to parse become zero, matching how the
// sheet stores free-form historical data.
func CaseFromRow(row []string) CaseRecord {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	getInt := func(i int) int {
		n, err := strconv.Atoi(get(i))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return CaseRecord{
		ID:         get(0),
		CapturedAt: get(1),
		ReportedBy: get(2),

		ReportingEPS: get(3),
		EpiWeek:      getInt(4),
		LifeCycle:    get(5),
		PriorAttempt: get(6),

		FirstNames:     get(7),
		Surnames:       get(8),
		DocumentType:   get(9),
		DocumentNumber: get(10),
		Age:            getInt(11),
		Sex:            get(12),
		Municipality:   get(13),

		NotificationDate:    get(14),
		GeneralMedicineDate: get(15),
		Hospitalization:     get(16),
		DischargeDate:       get(17),

		PsychologyAssessment: get(18),
		PsychologyDate:       get(19),
		PsychiatryAssessment: get(20),
		PsychiatryDate:       get(21),

		FollowUp1: get(22),
		FollowUp2: get(23),
		FollowUp3: get(24),

		MentalHealthPathway:   get(25),
		AttendsServices:       get(26),
		PostDischargeFollowUp: get(27),
		PostDischargeDate:     get(28),
		FollowUpCount:         getInt(29),
		TreatmentAbandoned:    get(30),
		LaterReattempt:        get(31),

		Status:     get(32),
		Notes:      get(33),
		ModifiedBy: get(34),
		ModifiedAt: get(35),
	}
}
