/*
Package pathway is a generic rule engine that simulates, for each entity in a
population, a clinical pathway expressed as a declarative state machine.

A pathway ("module") is a JSON or YAML file mapping state names to state
descriptions. Modules are discovered once, loaded lazily, and shared
read-only across the whole population; each entity walks its own chain of
cloned states through simulated time and records the path taken in a private
history.

# Usage

	eng, err := pathway.New("./modules")
	if err != nil {
		log.Fatal(err)
	}

	mods, err := eng.List(nil)
	if err != nil {
		log.Fatal(err)
	}

	e := domain.NewEntity("patient-1", 42, 0)
	for t := int64(0); t < end; t += step {
		for _, mod := range mods {
			if _, err := eng.Process(mod, e, t); err != nil {
				log.Fatal(err)
			}
		}
	}

The engine core is content-agnostic: it depends only on the domain.State
contract. The states package supplies the built-in catalog; hosts may inject
their own builder and core modules instead.
*/
package pathway
