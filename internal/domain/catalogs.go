package domain

// Catálogos fijos del evento 356 (Valle del Cauca).
// Los valores llegan ya normalizados desde estos catálogos; las comparaciones
// sobre ellos son sensibles a mayúsculas a propósito.

// Municipalities municipios del Valle del Cauca.
var Municipalities = []string{
	"ALCALA", "ANDALUCIA", "ANSERMANUEVO", "ARGELIA", "BOLIVAR",
	"BUENAVENTURA", "BUGA", "BUGALAGRANDE", "CAICEDONIA", "CALI",
	"CALIMA-DARIEN", "CANDELARIA", "CARTAGO", "DAGUA", "EL AGUILA",
	"EL CAIRO", "EL CERRITO", "EL DOVIO", "FLORIDA", "GINEBRA",
	"GUACARI", "JAMUNDI", "LA CUMBRE", "LA UNION", "LA VICTORIA",
	"OBANDO", "PALMIRA", "PRADERA", "RESTREPO", "RIOFRIO",
	"ROLDANILLO", "SAN PEDRO", "SEVILLA", "TORO", "TRUJILLO",
	"TULUA", "ULLOA", "VERSALLES", "VIJES", "YOTOCO", "YUMBO", "ZARZAL",
}

// EPSOther entrada de escape del catálogo de EPS: el valor final llega en
// el campo eps_otra y reemplaza a esta etiqueta antes de guardar.
const EPSOther = "OTRA (especificar)"

// EPSList EPS/EAPB habilitadas para reportar.
var EPSList = []string{
	"ALIANSALUD", "ANAS WAYUU EPSI", "ASMET SALUD",
	"ASOCIACIÓN INDÍGENA DEL CAUCA EPSI", "CAJACOPI ATLÁNTICO",
	"CAPITAL SALUD", "CAPRESOCA", "COMFACHOCÓ", "COMFAORIENTE",
	"COMFENALCO VALLE", "COMPENSAR", "COOSALUD",
	"DUSAKAWI EPSI", "EMSSANAR",
	"EPM (EMPRESAS PÚBLICAS DE MEDELLÍN)", "EPS FAMILIAR DE COLOMBIA",
	"FAMISANAR", "FONDO PASIVO SOCIAL FERROCARRILES",
	"MALLAMAS EPSI", "MUTUAL SER", "NUEVA EPS",
	"PIJAOS SALUD EPSI", "SALUD MÍA", "SALUD TOTAL",
	"SANITAS", "SAVIA SALUD",
	"SOS (SERVICIO OCCIDENTAL DE SALUD)", "SURA",
	EPSOther,
}

// LifeCycles ciclos vitales (3 bandas).
var LifeCycles = []string{
	"Infancia (0-11 años)",
	"Adolescencia y Juventud (12-28 años)",
	"Adultez y Vejez (29+ años)",
}

// DocumentTypes tipos de documento de identidad.
var DocumentTypes = []string{"CC", "TI", "RC", "CE", "PA", "MS"}

// CaseStatuses estados del caso. Las transiciones entre estados no están
// restringidas: cualquier estado puede seguir a cualquier otro.
var CaseStatuses = []string{
	"ACTIVO", "CERRADO", "EN SEGUIMIENTO",
	"REMITIDO A OTRA EPS", "FALLECIDO", "SIN CONTACTO",
}

// Sexes valores admitidos para sexo.
var Sexes = []string{"Masculino", "Femenino", "Indeterminado"}

// InCatalog reports whether value is one of the catalog entries (exact match).
func InCatalog(catalog []string, value string) bool {
	for _, v := range catalog {
		if v == value {
			return true
		}
	}
	return false
}
