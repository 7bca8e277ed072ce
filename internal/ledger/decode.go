package ledger

import "github.com/pryzera/palletline/pkg/types"

// Typed decoding boundary: every record leaving a backend passes through
// these functions, so boolean and numeric coercion is applied uniformly
// regardless of which adapter produced the record.

func decodeMaterial(rec types.Record) types.Material {
	f := rec.Fields
	return types.Material{
		Code:            types.Stringify(f["material_code"]),
		Description:     types.Stringify(f["description"]),
		MaxQty:          types.ToInt(f["max_qty"]),
		Prefix:          types.Stringify(f["prefix"]),
		AllowIncomplete: types.TruthyBool(f["allow_incomplete"]),
		Active:          types.TruthyBool(f["active"]),
	}
}

func encodeMaterial(m types.Material) map[string]any {
	return map[string]any{
		"material_code":    m.Code,
		"description":      m.Description,
		"max_qty":          m.MaxQty,
		"prefix":           m.Prefix,
		"allow_incomplete": m.AllowIncomplete,
		"active":           m.Active,
	}
}

func decodeDrum(rec types.Record) types.Drum {
	f := rec.Fields
	return types.Drum{
		Timestamp:    types.Stringify(f["timestamp"]),
		MaterialCode: types.Stringify(f["material_code"]),
		DrumNumber:   types.Stringify(f["drum_number"]),
		DrumType:     types.Stringify(f["drum_type"]),
		StandardQty:  types.Stringify(f["standard_qty"]),
		PalletID:     types.Stringify(f["pallet_id"]),
		Status:       types.Stringify(f["status"]),
		DeviceID:     types.Stringify(f["device_id"]),
		Operator:     types.Stringify(f["operator"]),
	}
}

func encodeDrum(d types.Drum) map[string]any {
	return map[string]any{
		"timestamp":     d.Timestamp,
		"material_code": d.MaterialCode,
		"drum_number":   d.DrumNumber,
		"drum_type":     d.DrumType,
		"standard_qty":  d.StandardQty,
		"pallet_id":     d.PalletID,
		"status":        d.Status,
		"device_id":     d.DeviceID,
		"operator":      d.Operator,
	}
}

func decodePallet(rec types.Record) types.Pallet {
	f := rec.Fields
	return types.Pallet{
		PalletID:     types.Stringify(f["pallet_id"]),
		MaterialCode: types.Stringify(f["material_code"]),
		Description:  types.Stringify(f["description"]),
		CreatedAt:    types.Stringify(f["created_at"]),
		Count:        types.ToInt(f["count"]),
		CompleteType: types.Stringify(f["complete_type"]),
		EmailSubject: types.Stringify(f["email_subject"]),
		EmailBody:    types.Stringify(f["email_body"]),
	}
}

func encodePallet(p types.Pallet) map[string]any {
	return map[string]any{
		"pallet_id":     p.PalletID,
		"material_code": p.MaterialCode,
		"description":   p.Description,
		"created_at":    p.CreatedAt,
		"count":         p.Count,
		"complete_type": p.CompleteType,
		"email_subject": p.EmailSubject,
		"email_body":    p.EmailBody,
	}
}
