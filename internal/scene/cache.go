package scene

import "github.com/julianstephens/seq4d/internal/logger"

// Cache maps product identity to the live renderable objects representing
// it. It scans the host's object list once on Build and must be invalidated
// whenever objects are added, removed, or reassociated.
type Cache struct {
	byProduct map[string][]Object
	objects   []Object
	built     bool
}

func NewCache() *Cache {
	c := &Cache{}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.byProduct = make(map[string][]Object)
	c.objects = nil
	c.built = false
}

// Build scans the host scene once, retaining only renderable objects and
// mapping product id to object list. Non-physical kinds (containers, spaces,
// empties) are excluded.
func (c *Cache) Build(host Host) {
	c.reset()
	if host == nil {
		c.built = true
		return
	}
	for _, obj := range host.Objects() {
		if obj == nil || !obj.Kind().Renderable() {
			continue
		}
		c.objects = append(c.objects, obj)
		if pid := obj.ProductID(); pid != "" {
			c.byProduct[pid] = append(c.byProduct[pid], obj)
		}
	}
	c.built = true
	logger.Debug("scene object cache built",
		"objects", len(c.objects), "products", len(c.byProduct))
}

// Invalidate clears the cache; queries return empty results until the next
// Build.
func (c *Cache) Invalidate() {
	c.reset()
}

func (c *Cache) Built() bool { return c.built }

// ObjectsFor returns the renderable objects representing the product, empty
// for unmapped products and unbuilt caches.
func (c *Cache) ObjectsFor(productID string) []Object {
	if !c.built {
		return nil
	}
	return c.byProduct[productID]
}

// Renderables returns every renderable object retained by the last Build.
func (c *Cache) Renderables() []Object {
	if !c.built {
		return nil
	}
	return c.objects
}
