package views

import "povertymap/internal/poverty/models"

// StatusDataUnavailable marks a view whose data the dataset does not carry.
const StatusDataUnavailable = "data_unavailable"

// Unavailable answers a view the loaded dataset cannot populate.
type Unavailable struct {
	Status      string            `json:"status"`
	Entity      models.EntityType `json:"entity"`
	Message     string            `json:"message"`
	Alternative string            `json:"alternative"`
}

// EntityDelegation names the level the delegation page would describe. It is
// not an EntityType of any record.
const EntityDelegation models.EntityType = "Delegation"

// BuildDelegations reports that delegation-level rows are not available and
// points at the regional view, which quotes the poorest and richest
// delegations of each region.
func BuildDelegations() Unavailable {
	return Unavailable{
		Status:      StatusDataUnavailable,
		Entity:      EntityDelegation,
		Message:     "Les données détaillées pour les délégations ne sont pas disponibles dans le fichier de données actuel.",
		Alternative: "/api/v1/regions",
	}
}
