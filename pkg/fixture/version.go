package fixture

// Version is the generator release, stamped on recorded runs
const Version = "v0.1.0"
