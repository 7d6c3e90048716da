package community

const onboardingGuide = `# How to Join the DPYC Honor Chain

## Step 1 — Generate a Nostr Identity

Every member needs a Nostr keypair. Your ` + "`npub`" + ` is your public identity.

` + "```bash" + `
# Option A: Use a Nostr client like Primal (https://primal.net)
# Create an account → your npub is shown in your profile

# Option B: CLI with nak (https://github.com/fiatjaf/nak)
nak key generate    # prints nsec (private) and npub (public)
` + "```" + `

**Keep your nsec private key safe.** You only share your npub.

## Step 2 — Choose Your Tier

### Citizen (Observer)
- No sponsorship required
- Read governance docs, follow community discussions
- To formalize: ask any Authority to sponsor your PR to members.json

### Operator (Run MCP Services)
- Find a sponsoring Authority willing to vouch for you
- The Authority submits a PR to ` + "`dpyc-community/members.json`" + ` adding your record
- Install ` + "`tollbooth-dpyc`" + ` in your MCP server for Lightning fare collection
- Configure your BTCPay Server instance for payment processing

### Authority (Certify Operators)
- Must already be an active Operator in good standing
- Requires sponsorship from an existing Authority or the First Curator
- Deploy ` + "`tollbooth-authority`" + ` to issue EdDSA-signed purchase certificates
- Fund your tax balance with the upstream Authority via Lightning

### First Curator (Prime Authority)
- There is exactly one First Curator at the root of the Honor Chain
- This role is not open for application — it is a governance position

## Step 3 — Get Sponsored

1. Introduce yourself in the community (GitHub Issues on dpyc-community)
2. An Authority reviews your intent and submits a PR with your member record
3. CI validates the record format; community reviews the PR
4. Once merged, you are an official member of the Honor Chain

## Useful Links

- Registry: https://github.com/lonniev/dpyc-community
- Tollbooth SDK: https://github.com/lonniev/tollbooth-dpyc
- Authority Service: https://github.com/lonniev/tollbooth-authority
- Primal (Nostr client): https://primal.net
- BTCPay Server: https://btcpayserver.org
`
