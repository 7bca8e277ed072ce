package workflow

import (
	"fmt"
	"strings"

	"github.com/pryzera/palletline/pkg/types"
)

// EmailSubject renders the notification subject for a closed pallet.
func EmailSubject(date, materialCode, palletID string) string {
	return fmt.Sprintf("%s - Rewinding %s - %s", date, materialCode, palletID)
}

// EmailBody renders the plain-text notification body: a header naming
// the material and pallet, the optional description, then one line per
// drum with its standard quantity.
func EmailBody(material types.Material, palletID string, drums []types.Drum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Material %s - Pallet %s\n", material.Code, palletID)
	if material.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", material.Description)
	}
	b.WriteString("\nDrum Number | Standard Quantity\n")
	for _, d := range drums {
		fmt.Fprintf(&b, "%s | %s\n", d.DrumNumber, d.StandardQty)
	}
	return b.String()
}
