package shopify

// OrdersByNameQuery finds up to $first orders matching a search expression such as name:'#1001'.
const OrdersByNameQuery = `
query getOrder($query: String!, $first: Int!) {
  orders(first: $first, query: $query) {
    edges {
      node {
        id
        name
        email
        displayFulfillmentStatus
        fulfillments(first: 5) {
          trackingInfo(first: 5) {
            number
            url
            company
          }
        }
        lineItems(first: 10) {
          edges {
            node {
              name
              quantity
            }
          }
        }
      }
    }
  }
}
`

// CollectionProductsQuery lists up to $first products of a collection.
const CollectionProductsQuery = `
query getCollectionProducts($id: ID!, $first: Int!) {
  collection(id: $id) {
    products(first: $first) {
      edges {
        node {
          id
          title
          handle
          featuredImage {
            url
          }
          priceRangeV2 {
            minVariantPrice {
              amount
              currencyCode
            }
          }
          onlineStoreUrl
        }
      }
    }
  }
}
`
