package domain

// Roles del sistema. SECRETARIA ve todos los registros; EPS solo los de su
// EPS asignada.
const (
	RoleSecretariat = "SECRETARIA"
	RoleEPS         = "EPS"
)

// UserColumns encabezado canónico de la hoja USUARIOS.
var UserColumns = []string{"usuario", "password_hash", "nombre_completo", "rol", "eps_asignada"}

// User una fila de la hoja USUARIOS.
// PasswordHash almacena "sal$hash" para cuentas nuevas. Filas legadas traen
// solo el hex de SHA-256 sin sal y la verificación debe seguir aceptándolas.
type User struct {
	Username     string `json:"usuario"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"nombre_completo"`
	Role         string `json:"rol"`
	AssignedEPS  string `json:"eps_asignada"`
}

// Row serializes the user positionally following UserColumns.
func (u *User) Row() []string {
	return []string{u.Username, u.PasswordHash, u.DisplayName, u.Role, u.AssignedEPS}
}

// UserFromRow decodes a positional USUARIOS row.
func UserFromRow(row []string) User {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return User{
		Username:     get(0),
		PasswordHash: get(1),
		DisplayName:  get(2),
		Role:         get(3),
		AssignedEPS:  get(4),
	}
}

// Session identidad autenticada de una sesión.
type Session struct {
	Username    string `json:"usuario"`
	DisplayName string `json:"nombre_completo"`
	Role        string `json:"rol"`
	AssignedEPS string `json:"eps_asignada"`
}

// Scope subconjunto de registros visible para una sesión.
// Una Scope sin EPS es irrestricta.
type Scope struct {
	Unrestricted bool
	EPS          string
}

// ScopeFor derives the visibility scope from a session's role.
func ScopeFor(sess Session) Scope {
	if sess.Role == RoleSecretariat {
		return Scope{Unrestricted: true}
	}
	return Scope{EPS: sess.AssignedEPS}
}

// ApplyScope filters records down to what the scope permits. An unrestricted
// scope returns the input unchanged. EPS comparison is exact: the values come
// from the fixed catalog, so no case folding is applied.
func ApplyScope(scope Scope, records []CaseRecord) []CaseRecord {
	if scope.Unrestricted {
		return records
	}
	out := make([]CaseRecord, 0, len(records))
	for _, r := range records {
		if r.ReportingEPS == scope.EPS {
			out = append(out, r)
		}
	}
	return out
}

// Allows reports whether the scope may see the given record.
func (s Scope) Allows(r CaseRecord) bool {
	return s.Unrestricted || r.ReportingEPS == s.EPS
}
