package companion

import (
	"testing"

	"github.com/osse101/Ascend_Go/internal/domain"
	"github.com/osse101/Ascend_Go/internal/testing/memstore"
)

const (
	testUserID   = "user-1"
	otherUserID  = "user-2"
	petFox       = "ember-fox"
	petOwl       = "moss-owl"
	petHound     = "pet-hound"
	foxUserPetID = "up-fox"
	owlUserPetID = "up-owl"
)

func strPtr(s string) *string { return &s }

func setupCompanion(t *testing.T) (*memstore.Store, *service) {
	t.Helper()
	store := memstore.New()

	store.AddUser(domain.User{ID: testUserID, Username: "ada"})
	store.AddUser(domain.User{ID: otherUserID, Username: "bob"})

	store.AddPet(domain.Pet{ID: petFox, Name: "Ember Fox", Type: domain.PetTypeCompanion, Rarity: domain.RarityRare,
		Bonuses: domain.PetBonuses{Atk: 2, Crit: 1}})
	store.AddPet(domain.Pet{ID: petOwl, Name: "Moss Owl", Type: domain.PetTypeCompanion, Rarity: domain.RarityUncommon,
		Bonuses: domain.PetBonuses{Def: 1, XP: 0.5}})
	store.AddPet(domain.Pet{ID: petHound, Name: "Dust Hound", Type: domain.PetTypePet, Rarity: domain.RarityCommon,
		Bonuses: domain.PetBonuses{Speed: 3}})

	store.AddUserPet(domain.UserPet{ID: foxUserPetID, UserID: testUserID, PetID: petFox, Level: 1})
	store.AddUserPet(domain.UserPet{ID: owlUserPetID, UserID: testUserID, PetID: petOwl, Level: 1})

	return store, NewService(store.Companion(), store).(*service)
}
