package dataprocessing

import "strings"

// Dataset identifies one of the four tracked dataset kinds.
type Dataset string

const (
	DatasetLines         Dataset = "lineas"
	DatasetDisbursements Dataset = "desembolsos"
	DatasetCompliance    Dataset = "splaft"
	DatasetContacts      Dataset = "contactos"
)

// Datasets lists every dataset kind in display order.
var Datasets = []Dataset{DatasetLines, DatasetDisbursements, DatasetCompliance, DatasetContacts}

// ParseDataset maps an external dataset name to its kind.
func ParseDataset(name string) (Dataset, bool) {
	switch Dataset(strings.ToLower(strings.TrimSpace(name))) {
	case DatasetLines:
		return DatasetLines, true
	case DatasetDisbursements:
		return DatasetDisbursements, true
	case DatasetCompliance:
		return DatasetCompliance, true
	case DatasetContacts:
		return DatasetContacts, true
	}
	return "", false
}

// lineAliases maps the synonym column names seen in credit-line exports to
// the canonical schema.
var lineAliases = map[string]string{
	"entidad":           "esfs",
	"institucion":       "esfs",
	"banco":             "esfs",
	"tipo":              "tipo_linea",
	"linea":             "tipo_linea",
	"monto":             "monto_aprobado",
	"monto_linea":       "monto_aprobado",
	"saldo":             "saldo_disponible",
	"saldo_linea":       "saldo_disponible",
	"vigencia":          "fecha_vigencia",
	"fecha_vencimiento": "fecha_vigencia",
}

var disbursementAliases = map[string]string{
	"institucion":            "ifi",
	"institucion_financiera": "ifi",
	"monto":                  "monto_desembolso",
	"desembolso":             "monto_desembolso",
	"importe":                "monto_desembolso",
}

var complianceAliases = map[string]string{
	"entidad":       "esfs",
	"institucion":   "esfs",
	"fecha":         "fecha_actualizacion",
	"actualizacion": "fecha_actualizacion",
}

var contactAliases = map[string]string{
	"entidad":           "institucion",
	"esfs":              "institucion",
	"ifi":               "institucion",
	"mail":              "correo",
	"email":             "correo",
	"celular":           "telefono",
	"telefono_contacto": "telefono",
	"fecha":             "ultima_actualizacion",
}

// estadoSynonyms canonicalizes compliance-document status values after
// lowercasing. Values outside the table pass through unchanged.
var estadoSynonyms = map[string]string{
	"enviado":   "recibido",
	"ok":        "aprobado",
	"aprobada":  "aprobado",
	"observada": "observado",
}

// Clean runs the cleaner for the given dataset kind.
func Clean(kind Dataset, t Table) Table {
	switch kind {
	case DatasetDisbursements:
		return CleanDisbursements(t)
	case DatasetCompliance:
		return CleanCompliance(t)
	case DatasetContacts:
		return CleanContacts(t)
	default:
		return CleanLines(t)
	}
}

// CleanLines normalizes a credit-lines export: columns esfs, tipo_linea,
// monto_aprobado, saldo_disponible, fecha_vigencia (all optional), plus the
// derived monto_utilizado and uso_pct.
func CleanLines(t Table) Table {
	out := ApplyAliases(t, lineAliases)

	out = CleanText(out, "esfs", true)
	out = CleanText(out, "tipo_linea", false)
	out = CoerceDate(out, "fecha_vigencia")

	for _, c := range []string{"monto_aprobado", "saldo_disponible", "monto_utilizado"} {
		out = CoerceNumber(out, c)
	}

	return deriveLineFields(out)
}

// deriveLineFields computes monto_utilizado (only when not supplied) and
// uso_pct row by row, propagating missing operands as missing results.
func deriveLineFields(t Table) Table {
	if !t.HasColumn("monto_aprobado") {
		return t
	}

	deriveUsed := t.HasColumn("saldo_disponible") && !t.HasColumn("monto_utilizado")
	if deriveUsed {
		t.AddColumn("monto_utilizado")
		for _, row := range t.Rows {
			aprobado, okA := row.Number("monto_aprobado")
			saldo, okS := row.Number("saldo_disponible")
			if okA && okS {
				row["monto_utilizado"] = aprobado - saldo
			} else {
				row["monto_utilizado"] = nil
			}
		}
	}

	if t.HasColumn("monto_utilizado") {
		t.AddColumn("uso_pct")
		for _, row := range t.Rows {
			utilizado, okU := row.Number("monto_utilizado")
			aprobado, okA := row.Number("monto_aprobado")
			if okU && okA {
				// Not clamped; out-of-range values pass through.
				row["uso_pct"] = utilizado / aprobado * 100
			} else {
				row["uso_pct"] = nil
			}
		}
	}
	return t
}

// CleanDisbursements normalizes a disbursements export: columns ifi, fecha,
// monto_desembolso.
func CleanDisbursements(t Table) Table {
	out := ApplyAliases(t, disbursementAliases)

	out = CleanText(out, "ifi", true)
	out = CoerceDate(out, "fecha")
	out = CoerceNumber(out, "monto_desembolso")
	return out
}

// CleanCompliance normalizes a compliance-document export: columns esfs,
// documento, estado, fecha_actualizacion. estado values are lowercased and
// canonicalized through the fixed synonym table.
func CleanCompliance(t Table) Table {
	out := ApplyAliases(t, complianceAliases)

	out = CleanText(out, "esfs", true)
	out = CleanText(out, "documento", false)
	out = CleanText(out, "estado", false)
	out = CoerceDate(out, "fecha_actualizacion")

	if out.HasColumn("estado") {
		for _, row := range out.Rows {
			s, ok := row.String("estado")
			if !ok {
				continue
			}
			s = strings.ToLower(strings.TrimSpace(s))
			if canonical, found := estadoSynonyms[s]; found {
				s = canonical
			}
			row["estado"] = s
		}
	}
	return out
}

// CleanContacts normalizes a counterpart-contacts export: columns institucion,
// nombre, cargo, correo, telefono, ultima_actualizacion.
func CleanContacts(t Table) Table {
	out := ApplyAliases(t, contactAliases)

	out = CleanText(out, "institucion", true)
	for _, c := range []string{"nombre", "cargo", "correo", "telefono"} {
		out = CleanText(out, c, false)
	}
	return CoerceDate(out, "ultima_actualizacion")
}
