package usecase

import (
	"fmt"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
)

// AssertOwner allows the mutation only when the requester created the resource.
func AssertOwner(resource domain.Owned, requestingUserID int64) error {
	if resource.OwnerID() != requestingUserID {
		return fmt.Errorf("%w: user %d does not own this resource", domain.ErrForbidden, requestingUserID)
	}
	return nil
}
