package inventory

import (
	"fmt"
	"path/filepath"
)

// Registry holds all loaded weapon, armor, and accessory definitions indexed by ID.
// It is read-only after loading and safe for concurrent lookups.
type Registry struct {
	weapons     map[string]*WeaponDef
	armors      map[string]*ArmorDef
	accessories map[string]*AccessoryDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:     make(map[string]*WeaponDef),
		armors:      make(map[string]*ArmorDef),
		accessories: make(map[string]*AccessoryDef),
	}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Armor(a.ID) returns a; returns error if a.ID already registered.
func (r *Registry) RegisterArmor(a *ArmorDef) error {
	if _, exists := r.armors[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterArmor: armor ID %q already registered", a.ID)
	}
	r.armors[a.ID] = a
	return nil
}

// RegisterAccessory adds a to the registry.
func (r *Registry) RegisterAccessory(a *AccessoryDef) error {
	if _, exists := r.accessories[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterAccessory: accessory ID %q already registered", a.ID)
	}
	r.accessories[a.ID] = a
	return nil
}

// Weapon returns the WeaponDef for id and whether it was found.
// A nil Registry finds nothing.
func (r *Registry) Weapon(id string) (*WeaponDef, bool) {
	if r == nil || id == "" {
		return nil, false
	}
	w, ok := r.weapons[id]
	return w, ok
}

// Armor returns the ArmorDef for id and whether it was found.
func (r *Registry) Armor(id string) (*ArmorDef, bool) {
	if r == nil || id == "" {
		return nil, false
	}
	a, ok := r.armors[id]
	return a, ok
}

// Accessory returns the AccessoryDef for id and whether it was found.
func (r *Registry) Accessory(id string) (*AccessoryDef, bool) {
	if r == nil || id == "" {
		return nil, false
	}
	a, ok := r.accessories[id]
	return a, ok
}

// Counts returns the number of registered weapons, armors, and accessories.
func (r *Registry) Counts() (weapons, armors, accessories int) {
	return len(r.weapons), len(r.armors), len(r.accessories)
}

// LoadRegistry loads root/weapons, root/armor, and root/accessories into a
// new Registry. A missing subdirectory is an error.
//
// Postcondition: Returns a populated Registry or the first load/registration error.
func LoadRegistry(root string) (*Registry, error) {
	reg := NewRegistry()

	weapons, err := LoadWeapons(filepath.Join(root, "weapons"))
	if err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if err := reg.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}

	armors, err := LoadArmors(filepath.Join(root, "armor"))
	if err != nil {
		return nil, err
	}
	for _, a := range armors {
		if err := reg.RegisterArmor(a); err != nil {
			return nil, err
		}
	}

	accessories, err := LoadAccessories(filepath.Join(root, "accessories"))
	if err != nil {
		return nil, err
	}
	for _, a := range accessories {
		if err := reg.RegisterAccessory(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
